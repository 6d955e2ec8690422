package models

import "time"

// Identity is the authenticated user as restored from the credentials file
// or returned by a login call.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token"`
}

// Work represents one uploaded calligraphy artwork record
type Work struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	Author           string    `json:"workAuthor"`
	GroupName        string    `json:"groupName"`
	Tags             []string  `json:"tags"`
	Description      string    `json:"description"`
	UploadDate       time.Time `json:"uploadDate"`
	UserID           string    `json:"userId"`
}

// Annotation is one labeled character region within a Work. Box coordinates
// are always in the coordinate space of the original image.
type Annotation struct {
	ID        string    `json:"id"`
	Character string    `json:"character"`
	WorkID    string    `json:"workId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
}

// User is an account row from the admin users endpoint
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Group is one node of the work-group tree. ParentID is empty for roots;
// a ParentID that resolves to no known group is treated as a root as well.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentId,omitempty"`
	WorkCount   int    `json:"workCount"`
}

// HomepageItem is one key/value row of the homepage marketing copy.
// Keys follow the hero_*/feature_N_*/gallery_N_* convention.
type HomepageItem struct {
	ContentKey   string `json:"content_key"`
	ContentValue string `json:"content_value"`
	ContentType  string `json:"content_type"` // "text", "color", "icon" or "image"
}

// Detection is an unconfirmed OCR-produced candidate annotation. Confidence
// is a percentage in [0,100]; the box is in original-image coordinates.
type Detection struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// ConfirmedAnnotation is a Detection the user promoted during the
// confirmation loop. It is what gets bundled into the final upload call.
type ConfirmedAnnotation struct {
	Detection
	Confirmed   bool      `json:"confirmed"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// UploadResult is the final submission response
type UploadResult struct {
	FileID           string `json:"fileId"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"originalFilename"`
	FileURL          string `json:"fileUrl,omitempty"`
	StorageProvider  string `json:"storageProvider,omitempty"`
}
