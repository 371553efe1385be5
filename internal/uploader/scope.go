package uploader

import "interior-media/internal/domain"

// ResolveImageType decides the role of a new upload. An explicitly forced
// role always wins. Unforced drawing uploads default to PAID. Otherwise the
// first image in a scope becomes MAIN and later ones SUB, judged against the
// supplied snapshot of existing images.
//
// The snapshot is taken once per selection; sibling pipelines finishing later
// in the same batch are not re-checked, so two files uploaded together into
// an empty scope can both come out MAIN.
func ResolveImageType(scope domain.ImageScope, existing []domain.Image, forced domain.ImageType) domain.ImageType {
	if forced != "" {
		return forced
	}
	if scope.DrawingID != "" {
		return domain.TypePaid
	}
	if hasMainInScope(scope, existing) {
		return domain.TypeSub
	}
	return domain.TypeMain
}

func hasMainInScope(scope domain.ImageScope, existing []domain.Image) bool {
	for i := range existing {
		img := &existing[i]
		if img.ImageType != domain.TypeMain {
			continue
		}
		if scope.Same(img.Scope()) {
			return true
		}
	}
	return false
}
