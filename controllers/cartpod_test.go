package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"cartpod-finder/middleware"
	"cartpod-finder/models"
	"cartpod-finder/utils"
)

// fakeImageStore records deletions instead of talking to the image host.
type fakeImageStore struct {
	deleted []string
}

func (f *fakeImageStore) UploadImage(ctx context.Context, header *multipart.FileHeader, folder string) (models.ImageRef, error) {
	return models.ImageRef{URL: "https://img/" + folder, PublicID: folder + "/uploaded"}, nil
}

func (f *fakeImageStore) DeleteImage(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func authenticatedRequest(method, target string, body io.Reader, userID string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	claims := &utils.Claims{UserID: userID}
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func cartPodDoc(id, owner primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Hawthorne Asylum"},
		{Key: "description", Value: "Big pod on Hawthorne"},
		{Key: "owner", Value: owner},
		{Key: "images", Value: bson.D{
			{Key: "main", Value: bson.D{
				{Key: "url", Value: "https://img/main.jpg"},
				{Key: "publicId", Value: "cartpods/main/a"},
			}},
			{Key: "map", Value: bson.D{
				{Key: "url", Value: "https://img/map.jpg"},
				{Key: "publicId", Value: "cartpods/map/b"},
			}},
		}},
	}
}

func TestCartPodOwnershipEnforcement(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-owner update is forbidden and writes nothing", func(mt *mtest.T) {
		podID := primitive.NewObjectID()
		owner := primitive.NewObjectID()
		intruder := primitive.NewObjectID()

		images := &fakeImageStore{}
		controller := NewCartPodController(mt.Client, images)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cartpodfinder.cartpods", mtest.FirstBatch, cartPodDoc(podID, owner)))

		body := bytes.NewBufferString(`{"name":"Taco Row","images":{"main":{"url":"https://img/new.jpg","publicId":"cartpods/main/new"}}}`)
		req := authenticatedRequest(http.MethodPut, "/api/cartpods/"+podID.Hex(), body, intruder.Hex(), map[string]string{"id": podID.Hex()})
		rec := httptest.NewRecorder()
		controller.Update(rec, req)

		assert.Equal(mt, http.StatusForbidden, rec.Code)
		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 1)
		assert.Equal(mt, "find", events[0].CommandName)
		assert.Empty(mt, images.deleted)
	})

	mt.Run("non-owner delete is forbidden and cascades nothing", func(mt *mtest.T) {
		podID := primitive.NewObjectID()
		owner := primitive.NewObjectID()
		intruder := primitive.NewObjectID()

		images := &fakeImageStore{}
		controller := NewCartPodController(mt.Client, images)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cartpodfinder.cartpods", mtest.FirstBatch, cartPodDoc(podID, owner)))

		req := authenticatedRequest(http.MethodDelete, "/api/cartpods/"+podID.Hex(), nil, intruder.Hex(), map[string]string{"id": podID.Hex()})
		rec := httptest.NewRecorder()
		controller.Delete(rec, req)

		assert.Equal(mt, http.StatusForbidden, rec.Code)
		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 1)
		assert.Equal(mt, "find", events[0].CommandName)
		assert.Empty(mt, images.deleted)
	})
}

func TestCartPodDeleteCascade(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("owner delete removes images, then carts, then the pod", func(mt *mtest.T) {
		podID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		images := &fakeImageStore{}
		controller := NewCartPodController(mt.Client, images)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "cartpodfinder.cartpods", mtest.FirstBatch, cartPodDoc(podID, owner)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		req := authenticatedRequest(http.MethodDelete, "/api/cartpods/"+podID.Hex(), nil, owner.Hex(), map[string]string{"id": podID.Hex()})
		rec := httptest.NewRecorder()
		controller.Delete(rec, req)

		assert.Equal(mt, http.StatusOK, rec.Code)
		assert.Equal(mt, []string{"cartpods/main/a", "cartpods/map/b"}, images.deleted)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 3)
		assert.Equal(mt, "find", events[0].CommandName)
		assert.Equal(mt, "delete", events[1].CommandName)
		assert.Equal(mt, "foodcarts", events[1].Command.Lookup("delete").StringValue())
		assert.Equal(mt, "delete", events[2].CommandName)
		assert.Equal(mt, "cartpods", events[2].Command.Lookup("delete").StringValue())
	})
}
