package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cartpod-finder/models"
)

// FoodCartController handles food cart requests. Mutations require a
// valid credential but, unlike cart pods, no ownership check.
type FoodCartController struct {
	Collection        *mongo.Collection
	CartPodCollection *mongo.Collection
	ImageService      ImageStore
}

// NewFoodCartController creates a new FoodCartController
func NewFoodCartController(client *mongo.Client, imageService ImageStore) *FoodCartController {
	db := client.Database("cartpodfinder")
	return &FoodCartController{
		Collection:        db.Collection("foodcarts"),
		CartPodCollection: db.Collection("cartpods"),
		ImageService:      imageService,
	}
}

type foodCartCreateRequest struct {
	Name     string                       `json:"name"`
	FoodType string                       `json:"foodType"`
	CartPod  string                       `json:"cartPod"`
	Images   *models.FoodCartImagesUpdate `json:"images"`
}

// podRef is the populated parent projection on a single-cart read.
type podRef struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Location models.GeoPoint    `json:"location"`
}

// foodCartDetail is the single-cart read shape with the parent pod
// populated. A dangling parent reference leaves the field empty.
type foodCartDetail struct {
	models.FoodCart
	CartPod *podRef `json:"cartPod,omitempty"`
}

// Create adds a new food cart and appends its id to the parent pod's
// foodCarts list. The main image reference is mandatory.
func (fc *FoodCartController) Create(w http.ResponseWriter, r *http.Request) {
	var req foodCartCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.FoodType == "" || req.CartPod == "" ||
		req.Images == nil || !req.Images.Main.Complete() {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	podID, err := primitive.ObjectIDFromHex(req.CartPod)
	if err != nil {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The parent must exist at creation time.
	count, err := fc.CartPodCollection.CountDocuments(ctx, bson.M{"_id": podID})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count == 0 {
		http.Error(w, "Cart pod not found", http.StatusBadRequest)
		return
	}

	cart := models.FoodCart{
		Name:      req.Name,
		FoodType:  req.FoodType,
		CartPod:   podID,
		CreatedAt: time.Now().UTC(),
	}
	cart.Images.Main = req.Images.Main
	if req.Images.Menu.Complete() {
		cart.Images.Menu = req.Images.Menu
	}
	if req.Images.Specials.Complete() {
		cart.Images.Specials = req.Images.Specials
	}

	result, err := fc.Collection.InsertOne(ctx, cart)
	if err != nil {
		http.Error(w, "Error creating food cart", http.StatusInternalServerError)
		return
	}
	cart.ID = result.InsertedID.(primitive.ObjectID)

	// Denormalized back-reference on the parent.
	_, err = fc.CartPodCollection.UpdateOne(ctx, bson.M{"_id": podID}, bson.M{
		"$push": bson.M{"foodCarts": cart.ID},
	})
	if err != nil {
		http.Error(w, "Error linking food cart to cart pod", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cart)
}

// List retrieves all food carts, newest first, each with its parent
// pod populated. A dangling parent reference leaves the field empty.
func (fc *FoodCartController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := fc.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Error fetching food carts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	carts := []models.FoodCart{}
	if err := cursor.All(ctx, &carts); err != nil {
		http.Error(w, "Error reading food carts", http.StatusInternalServerError)
		return
	}

	pods, err := fc.fetchPodRefs(ctx, carts)
	if err != nil {
		http.Error(w, "Error fetching cart pods", http.StatusInternalServerError)
		return
	}

	details := make([]foodCartDetail, 0, len(carts))
	for _, cart := range carts {
		details = append(details, foodCartDetail{FoodCart: cart, CartPod: pods[cart.CartPod]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

// fetchPodRefs resolves the distinct parent pods of the given carts
// into projections keyed by id.
func (fc *FoodCartController) fetchPodRefs(ctx context.Context, carts []models.FoodCart) (map[primitive.ObjectID]*podRef, error) {
	ids := make([]primitive.ObjectID, 0, len(carts))
	seen := make(map[primitive.ObjectID]bool, len(carts))
	for _, cart := range carts {
		if !seen[cart.CartPod] {
			seen[cart.CartPod] = true
			ids = append(ids, cart.CartPod)
		}
	}

	pods := make(map[primitive.ObjectID]*podRef, len(ids))
	if len(ids) == 0 {
		return pods, nil
	}

	cursor, err := fc.CartPodCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.CartPod{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for _, pod := range records {
		pods[pod.ID] = &podRef{ID: pod.ID, Name: pod.Name, Location: pod.Location}
	}
	return pods, nil
}

// GetByID retrieves a single food cart with its parent pod's name and
// location populated.
func (fc *FoodCartController) GetByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cart models.FoodCart
	if err := fc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cart); err != nil {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	detail := foodCartDetail{FoodCart: cart}
	var pod models.CartPod
	if err := fc.CartPodCollection.FindOne(ctx, bson.M{"_id": cart.CartPod}).Decode(&pod); err == nil {
		detail.CartPod = &podRef{ID: pod.ID, Name: pod.Name, Location: pod.Location}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// Update applies a sparse payload to a food cart. Image slots are
// merged only when both halves of the replacement ref were submitted;
// an empty recognized set returns the cart unchanged with no write.
func (fc *FoodCartController) Update(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	var payload models.FoodCartUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cart models.FoodCart
	if err := fc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cart); err != nil {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	set := payload.SetDocument()
	if len(set) == 0 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cart)
		return
	}

	for _, ref := range payload.ReplacedImages(cart.Images) {
		if err := fc.ImageService.DeleteImage(ctx, ref.PublicID); err != nil {
			log.Printf("Error deleting replaced image: %v", err)
		}
	}

	if _, err := fc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		http.Error(w, "Error updating food cart", http.StatusInternalServerError)
		return
	}

	var updated models.FoodCart
	if err := fc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		http.Error(w, "Error fetching updated food cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes the food cart record only: its hosted images stay in
// the image store and its id stays in the parent pod's foodCarts list,
// where readers filter it out as dangling.
func (fc *FoodCartController) Delete(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := fc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting food cart", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Food cart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Food cart deleted successfully"})
}
