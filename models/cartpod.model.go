package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartPodImages holds the pod's named image slots.
type CartPodImages struct {
	Main *ImageRef `bson:"main,omitempty" json:"main,omitempty"`
	Map  *ImageRef `bson:"map,omitempty" json:"map,omitempty"`
}

// Refs returns the populated slots, for image-store cleanup.
func (im CartPodImages) Refs() []ImageRef {
	var refs []ImageRef
	if im.Main.Complete() {
		refs = append(refs, *im.Main)
	}
	if im.Map.Complete() {
		refs = append(refs, *im.Map)
	}
	return refs
}

// CartPod is a physical location hosting a cluster of food carts.
// Owner is set at creation and never reassigned; only the owner may
// update or delete the pod. FoodCarts is a denormalized back-reference
// list — ids in it may be dangling after an independent cart deletion,
// so readers filter defensively.
type CartPod struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Address     string               `bson:"address,omitempty" json:"address,omitempty"`
	Location    GeoPoint             `bson:"location" json:"location"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Images      CartPodImages        `bson:"images" json:"images"`
	FoodCarts   []primitive.ObjectID `bson:"foodCarts" json:"foodCarts"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CartPodDetail is the single-pod read shape: the foodCarts id list
// expanded into summaries.
type CartPodDetail struct {
	CartPod
	FoodCarts []FoodCartSummary `json:"foodCarts"`
}

// CartPodUpdate is the sparse payload accepted by the update endpoint.
// Absent fields keep their stored value.
type CartPodUpdate struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Address     string               `json:"address"`
	Location    *GeoPointInput       `json:"location"`
	Images      *CartPodImagesUpdate `json:"images"`
}

// CartPodImagesUpdate carries replacement image refs per slot.
type CartPodImagesUpdate struct {
	Main *ImageRef `json:"main"`
	Map  *ImageRef `json:"map"`
}

// SetDocument translates the sparse payload into a field-level $set
// document. Only present, non-empty fields are merged; image slots are
// addressed with dot notation so untouched slots survive; an invalid
// location fails the whole update before anything is merged. An empty
// result means the caller should skip the write entirely.
func (u CartPodUpdate) SetDocument() (bson.M, error) {
	set := bson.M{}
	if u.Location != nil {
		point, err := u.Location.GeoPoint()
		if err != nil {
			return nil, err
		}
		set["location"] = point
	}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.Description != "" {
		set["description"] = u.Description
	}
	if u.Address != "" {
		set["address"] = u.Address
	}
	if u.Images != nil {
		if u.Images.Main.Complete() {
			set["images.main"] = *u.Images.Main
		}
		if u.Images.Map.Complete() {
			set["images.map"] = *u.Images.Map
		}
	}
	return set, nil
}

// ReplacedImages pairs each image slot being overwritten by the update
// with the ref currently stored there, so the superseded hosted images
// can be deleted. Slots the update does not touch are excluded, as is
// a slot that merely echoes the stored ref back: re-submitting record
// state must not destroy the image the record keeps pointing at.
func (u CartPodUpdate) ReplacedImages(current CartPodImages) []ImageRef {
	if u.Images == nil {
		return nil
	}
	var old []ImageRef
	if replacesImage(u.Images.Main, current.Main) {
		old = append(old, *current.Main)
	}
	if replacesImage(u.Images.Map, current.Map) {
		old = append(old, *current.Map)
	}
	return old
}

// replacesImage reports whether submitting next over stored supersedes
// a live hosted image.
func replacesImage(next, stored *ImageRef) bool {
	return next.Complete() && stored.Complete() && next.PublicID != stored.PublicID
}
