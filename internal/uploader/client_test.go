package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"interior-media/internal/domain"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	zlog.Init()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, srv.Client(), &zlog.Logger), srv
}

func TestClient_CreatePresignedURL(t *testing.T) {
	var gotToken string
	var gotReq PresignRequest

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/images/presigned-url", r.URL.Path)
		gotToken = r.Header.Get(CallerIDHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(domain.UploadTicket{
			ImageID:   "img-1",
			UploadURL: "http://storage/put/img-1",
			ImageURL:  "http://cdn/img-1.jpg",
		})
	}))

	ticket, err := client.CreatePresignedURL(context.Background(), "user-1", PresignRequest{
		FileName:    "kitchen.jpg",
		ContentType: "image/jpeg",
		PropertyID:  "prop-1",
		RoomID:      "room-1",
		ImageType:   domain.TypeMain,
	})

	require.NoError(t, err)
	require.Equal(t, "img-1", ticket.ImageID)
	require.Equal(t, "http://storage/put/img-1", ticket.UploadURL)
	require.Equal(t, "user-1", gotToken)
	require.Equal(t, "kitchen.jpg", gotReq.FileName)
	require.Equal(t, "room-1", gotReq.RoomID)
	require.Equal(t, domain.TypeMain, gotReq.ImageType)
}

func TestClient_MissingIdentityFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.CreatePresignedURL(context.Background(), "", PresignRequest{FileName: "a.jpg"})
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	err = client.FinalizeStatus(context.Background(), "", "img-1", domain.StatusCompleted)
	require.ErrorAs(t, err, &authErr)

	err = client.DeleteImage(context.Background(), "", "img-1")
	require.ErrorAs(t, err, &authErr)

	err = client.UpdateImageType(context.Background(), "", "img-1", domain.TypeMain)
	require.ErrorAs(t, err, &authErr)

	require.Zero(t, calls.Load())
}

func TestClient_PresignServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.CreatePresignedURL(context.Background(), "user-1", PresignRequest{FileName: "a.jpg"})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, "presign", serverErr.Op)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_FinalizeStatus(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.FinalizeStatus(context.Background(), "user-1", "img-7", domain.StatusCompleted)

	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/api/images/img-7/status", gotPath)
	require.Equal(t, "completed", gotBody["status"])
}

func TestClient_UpdateImageType(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.UpdateImageType(context.Background(), "user-1", "img-7", domain.TypeMain)

	require.NoError(t, err)
	require.Equal(t, "/api/images/img-7/type", gotPath)
	require.Equal(t, "MAIN", gotBody["image_type"])
}

func TestClient_DeleteImage(t *testing.T) {
	var gotMethod, gotPath string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.DeleteImage(context.Background(), "user-1", "img-9")

	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/api/images/img-9", gotPath)
}

func TestClient_ListImages(t *testing.T) {
	var gotQuery string
	var gotIdentity string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotIdentity = r.Header.Get(CallerIDHeader)
		json.NewEncoder(w).Encode([]domain.Image{
			{ID: "img-1", ImageType: domain.TypeMain, Status: domain.StatusCompleted},
			{ID: "img-2", ImageType: domain.TypeSub, Status: domain.StatusCompleted},
		})
	}))

	images, err := client.ListImages(context.Background(), ListQuery{
		PropertyID: "prop-1",
		Skip:       10,
		Limit:      20,
	})

	require.NoError(t, err)
	require.Len(t, images, 2)
	require.Equal(t, "img-1", images[0].ID)

	// Listing carries no identity header in the current design.
	require.Empty(t, gotIdentity)
	require.Contains(t, gotQuery, "property_id=prop-1")
	require.Contains(t, gotQuery, "skip=10")
	require.Contains(t, gotQuery, "limit=20")
}
