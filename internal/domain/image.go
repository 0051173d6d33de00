package domain

import "time"

// TransformationType enumerates the supported AI transformations.
type TransformationType string

const (
	TransformationRestore          TransformationType = "restore"
	TransformationFill             TransformationType = "fill"
	TransformationRemove           TransformationType = "remove"
	TransformationRecolor          TransformationType = "recolor"
	TransformationRemoveBackground TransformationType = "removeBackground"
)

// CreditFees maps each transformation to the credits it consumes.
var CreditFees = map[TransformationType]int64{
	TransformationRestore:          1,
	TransformationFill:             1,
	TransformationRemove:           1,
	TransformationRecolor:          1,
	TransformationRemoveBackground: 1,
}

// Valid reports whether the transformation type is one of the fixed set.
func (t TransformationType) Valid() bool {
	_, ok := CreditFees[t]
	return ok
}

// Fee returns the credit cost of applying the transformation.
func (t TransformationType) Fee() int64 {
	return CreditFees[t]
}

// ImageAuthor carries the populated author fields returned alongside an image.
type ImageAuthor struct {
	ID        string
	ClerkID   string
	FirstName string
	LastName  string
}

// Image holds the metadata of one transformed image. The bytes live with the
// external image provider; PublicID is the join key into its storage.
type Image struct {
	ID                 string
	Title              string
	PublicID           string
	SecureURL          string
	TransformationType TransformationType
	Config             []byte // JSONB transformation configuration
	TransformationURL  string
	AspectRatio        string
	Color              string
	Prompt             string
	Width              int
	Height             int
	AuthorID           string
	Author             *ImageAuthor
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ImagePage is one page of an image listing.
type ImagePage struct {
	Items       []Image
	TotalPages  int
	SavedImages int64
}
