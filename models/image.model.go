package models

// ImageRef identifies one hosted image: the servable URL plus the
// public ID the hosting service needs to delete it again.
type ImageRef struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

// Complete reports whether the reference carries both halves. A slot is
// either fully populated or absent; partial refs are never stored.
func (ref *ImageRef) Complete() bool {
	return ref != nil && ref.URL != "" && ref.PublicID != ""
}
