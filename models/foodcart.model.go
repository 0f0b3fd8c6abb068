package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodCartImages holds the cart's named image slots. Main is required
// before the cart is considered complete; menu and specials are optional.
type FoodCartImages struct {
	Main     *ImageRef `bson:"main,omitempty" json:"main,omitempty"`
	Menu     *ImageRef `bson:"menu,omitempty" json:"menu,omitempty"`
	Specials *ImageRef `bson:"specials,omitempty" json:"specials,omitempty"`
}

// FoodCart is a single vendor record belonging to exactly one CartPod.
type FoodCart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	FoodType  string             `bson:"foodType" json:"foodType"`
	CartPod   primitive.ObjectID `bson:"cartPod" json:"cartPod"`
	Images    FoodCartImages     `bson:"images" json:"images"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// FoodCartSummary is the projection embedded in a CartPod detail read.
type FoodCartSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	FoodType     string             `json:"foodType"`
	MainImageURL string             `json:"mainImageUrl,omitempty"`
}

// Summary projects the cart for embedding in its parent pod.
func (fc FoodCart) Summary() FoodCartSummary {
	s := FoodCartSummary{ID: fc.ID, Name: fc.Name, FoodType: fc.FoodType}
	if fc.Images.Main.Complete() {
		s.MainImageURL = fc.Images.Main.URL
	}
	return s
}

// SummarizeFoodCarts expands a pod's foodCarts reference list against
// the carts actually fetched, preserving the list's order. Dangling ids
// (carts deleted independently) are omitted, not reported.
func SummarizeFoodCarts(order []primitive.ObjectID, carts []FoodCart) []FoodCartSummary {
	byID := make(map[primitive.ObjectID]FoodCart, len(carts))
	for _, fc := range carts {
		byID[fc.ID] = fc
	}
	summaries := make([]FoodCartSummary, 0, len(order))
	for _, id := range order {
		if fc, ok := byID[id]; ok {
			summaries = append(summaries, fc.Summary())
		}
	}
	return summaries
}

// FoodCartUpdate is the sparse payload accepted by the update endpoint.
type FoodCartUpdate struct {
	Name     string                `json:"name"`
	FoodType string                `json:"foodType"`
	Images   *FoodCartImagesUpdate `json:"images"`
}

// FoodCartImagesUpdate carries replacement image refs per slot.
type FoodCartImagesUpdate struct {
	Main     *ImageRef `json:"main"`
	Menu     *ImageRef `json:"menu"`
	Specials *ImageRef `json:"specials"`
}

// SetDocument translates the sparse payload into a field-level $set
// document. Image slots are merged only when both url and publicId were
// submitted; incomplete refs are dropped rather than stored. An empty
// result means nothing recognizable was submitted and storage must not
// be touched.
func (u FoodCartUpdate) SetDocument() bson.M {
	set := bson.M{}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.FoodType != "" {
		set["foodType"] = u.FoodType
	}
	if u.Images != nil {
		if u.Images.Main.Complete() {
			set["images.main"] = *u.Images.Main
		}
		if u.Images.Menu.Complete() {
			set["images.menu"] = *u.Images.Menu
		}
		if u.Images.Specials.Complete() {
			set["images.specials"] = *u.Images.Specials
		}
	}
	return set
}

// ReplacedImages pairs each slot being overwritten with the ref
// currently stored there, so the superseded hosted images can be
// deleted from the image store. Echoing the stored ref back is not a
// replacement and must not delete the image the record keeps.
func (u FoodCartUpdate) ReplacedImages(current FoodCartImages) []ImageRef {
	if u.Images == nil {
		return nil
	}
	var old []ImageRef
	if replacesImage(u.Images.Main, current.Main) {
		old = append(old, *current.Main)
	}
	if replacesImage(u.Images.Menu, current.Menu) {
		old = append(old, *current.Menu)
	}
	if replacesImage(u.Images.Specials, current.Specials) {
		old = append(old, *current.Specials)
	}
	return old
}
