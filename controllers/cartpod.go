package controllers

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cartpod-finder/middleware"
	"cartpod-finder/models"
	"cartpod-finder/utils"
)

// ImageStore is the slice of the hosted-image lifecycle the controllers
// drive: uploads on create, best-effort deletes on replacement and
// cascade. Satisfied by utils.ImageService.
type ImageStore interface {
	UploadImage(ctx context.Context, header *multipart.FileHeader, folder string) (models.ImageRef, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// CartPodController handles cart pod requests
type CartPodController struct {
	Collection         *mongo.Collection
	FoodCartCollection *mongo.Collection
	ImageService       ImageStore
}

// NewCartPodController creates a new CartPodController
func NewCartPodController(client *mongo.Client, imageService ImageStore) *CartPodController {
	db := client.Database("cartpodfinder")
	return &CartPodController{
		Collection:         db.Collection("cartpods"),
		FoodCartCollection: db.Collection("foodcarts"),
		ImageService:       imageService,
	}
}

// cartPodCreateRequest is the JSON form of the create payload. When the
// request is multipart the same fields arrive as form values, with the
// location JSON-encoded as a string next to the file parts.
type cartPodCreateRequest struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Address     string                      `json:"address"`
	Location    *models.GeoPointInput       `json:"location"`
	Images      *models.CartPodImagesUpdate `json:"images"`
}

// Create handles adding a new cart pod. The caller becomes its owner.
// Images uploaded with the request are pushed to the image store first;
// if validation then fails, the uploads are compensated with deletes so
// a failed create leaves no hosted orphans from this request.
func (cc *CartPodController) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	owner, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pod := models.CartPod{
		Owner:     owner,
		FoodCarts: []primitive.ObjectID{},
	}

	// References uploaded by this request, for compensation on failure.
	var uploaded []models.ImageRef

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(2 * utils.MaxImageSize); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		pod.Name = r.FormValue("name")
		pod.Description = r.FormValue("description")
		pod.Address = r.FormValue("address")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		for _, slot := range []struct {
			field  string
			folder string
			dest   **models.ImageRef
		}{
			{"mainImage", "cartpods/main", &pod.Images.Main},
			{"mapImage", "cartpods/map", &pod.Images.Map},
		} {
			files := r.MultipartForm.File[slot.field]
			if len(files) == 0 {
				continue
			}
			ref, err := cc.ImageService.UploadImage(ctx, files[0], slot.folder)
			if err != nil {
				cc.compensateUploads(uploaded)
				http.Error(w, "Error uploading image", http.StatusInternalServerError)
				return
			}
			uploaded = append(uploaded, ref)
			refCopy := ref
			*slot.dest = &refCopy
		}

		if pod.Name == "" || pod.Description == "" {
			cc.compensateUploads(uploaded)
			http.Error(w, "Name and description are required", http.StatusBadRequest)
			return
		}
		point, err := models.ParseGeoPoint(r.FormValue("location"))
		if err != nil {
			cc.compensateUploads(uploaded)
			http.Error(w, "Name and valid location (GeoJSON Point) are required", http.StatusBadRequest)
			return
		}
		pod.Location = point
	} else {
		var req cartPodCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Description == "" || req.Location == nil {
			http.Error(w, "Name and valid location (GeoJSON Point) are required", http.StatusBadRequest)
			return
		}
		point, err := req.Location.GeoPoint()
		if err != nil {
			http.Error(w, "Name and valid location (GeoJSON Point) are required", http.StatusBadRequest)
			return
		}
		pod.Name = req.Name
		pod.Description = req.Description
		pod.Address = req.Address
		pod.Location = point
		// Pre-uploaded references are accepted only when complete.
		if req.Images != nil {
			if req.Images.Main.Complete() {
				pod.Images.Main = req.Images.Main
			}
			if req.Images.Map.Complete() {
				pod.Images.Map = req.Images.Map
			}
		}
	}

	now := time.Now().UTC()
	pod.CreatedAt = now
	pod.UpdatedAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := cc.Collection.InsertOne(ctx, pod)
	if err != nil {
		cc.compensateUploads(uploaded)
		http.Error(w, "Error creating cart pod", http.StatusInternalServerError)
		return
	}
	pod.ID = result.InsertedID.(primitive.ObjectID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pod)
}

// compensateUploads deletes images uploaded by a request that failed
// afterwards. Best effort: the store call itself may fail silently.
func (cc *CartPodController) compensateUploads(refs []models.ImageRef) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ref := range refs {
		if err := cc.ImageService.DeleteImage(ctx, ref.PublicID); err != nil {
			log.Printf("Error cleaning up uploaded image: %v", err)
		}
	}
}

// List retrieves all cart pods, newest first.
func (cc *CartPodController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := cc.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching cart pods", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	pods := []models.CartPod{}
	if err := cursor.All(ctx, &pods); err != nil {
		http.Error(w, "Error reading cart pods", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pods)
}

// GetByID retrieves a single cart pod with its foodCarts reference list
// expanded into summaries. Dangling references are omitted.
func (cc *CartPodController) GetByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pod models.CartPod
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pod); err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}

	carts := []models.FoodCart{}
	if len(pod.FoodCarts) > 0 {
		cursor, err := cc.FoodCartCollection.Find(ctx, bson.M{"_id": bson.M{"$in": pod.FoodCarts}})
		if err != nil {
			http.Error(w, "Error fetching food carts", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &carts); err != nil {
			http.Error(w, "Error reading food carts", http.StatusInternalServerError)
			return
		}
	}

	detail := models.CartPodDetail{
		CartPod:   pod,
		FoodCarts: models.SummarizeFoodCarts(pod.FoodCarts, carts),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// Update applies a sparse payload to a cart pod. Only the owner may
// update; absent fields keep their stored value; an empty recognized
// set returns the pod unchanged without touching storage.
func (cc *CartPodController) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}

	var payload models.CartPodUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pod models.CartPod
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pod); err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}
	if pod.Owner.Hex() != claims.UserID {
		http.Error(w, "User not authorized to update this cart pod", http.StatusForbidden)
		return
	}

	set, err := payload.SetDocument()
	if err != nil {
		http.Error(w, "Invalid location format provided for update", http.StatusBadRequest)
		return
	}
	if len(set) == 0 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pod)
		return
	}

	// Superseded hosted images go away best-effort; the record update
	// is never blocked on external cleanup.
	for _, ref := range payload.ReplacedImages(pod.Images) {
		if err := cc.ImageService.DeleteImage(ctx, ref.PublicID); err != nil {
			log.Printf("Error deleting replaced image: %v", err)
		}
	}

	set["updatedAt"] = time.Now().UTC()
	if _, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		http.Error(w, "Error updating cart pod", http.StatusInternalServerError)
		return
	}

	var updated models.CartPod
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		http.Error(w, "Error fetching updated cart pod", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes a cart pod and cascades: the pod's own hosted images
// (best effort), then every food cart referencing it (their images are
// left in the store), then the pod record. The sequence is not atomic.
func (cc *CartPodController) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pod models.CartPod
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pod); err != nil {
		http.Error(w, "Cart pod not found", http.StatusNotFound)
		return
	}
	if pod.Owner.Hex() != claims.UserID {
		http.Error(w, "User not authorized to delete this cart pod", http.StatusForbidden)
		return
	}

	for _, ref := range pod.Images.Refs() {
		if err := cc.ImageService.DeleteImage(ctx, ref.PublicID); err != nil {
			log.Printf("Error deleting cart pod image: %v", err)
		}
	}

	if _, err := cc.FoodCartCollection.DeleteMany(ctx, bson.M{"cartPod": id}); err != nil {
		http.Error(w, "Error deleting associated food carts", http.StatusInternalServerError)
		return
	}

	if _, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		http.Error(w, "Error deleting cart pod", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart pod and associated food carts deleted successfully"})
}
