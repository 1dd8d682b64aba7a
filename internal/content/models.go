package content

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/byteedoc/portfolio-api/internal/store"
)

// Display models for the public site. These mirror the documents the admin
// editors write; field names match the persisted layout.

// Hero is the singleton landing-section document.
type Hero struct {
	Heading    string `bson:"heading" json:"heading"`
	Subheading string `bson:"subheading" json:"subheading"`
	ImageURL   string `bson:"imageUrl" json:"imageUrl"`
	CVURL      string `bson:"cvUrl" json:"cvUrl"`
}

// About is the singleton free-text document.
type About struct {
	Text string `bson:"text" json:"text"`
}

type Service struct {
	ID    string `bson:"-" json:"id"`
	Title string `bson:"title" json:"title"`
	Icon  string `bson:"icon" json:"icon"`
}

type Experience struct {
	ID          string   `bson:"-" json:"id"`
	Title       string   `bson:"title" json:"title"`
	CompanyName string   `bson:"company_name" json:"company_name"`
	Date        string   `bson:"date" json:"date"`
	Points      []string `bson:"points" json:"points"`
	Image       string   `bson:"image" json:"image"`
}

type Project struct {
	ID           string   `bson:"-" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Description  string   `bson:"description" json:"description"`
	Tags         []string `bson:"tags" json:"tags"`
	Image        string   `bson:"image" json:"image"`
	GithubLink   string   `bson:"githubLink" json:"githubLink"`
	LiveDemoLink string   `bson:"liveDemoLink" json:"liveDemoLink"`
}

type Testimonial struct {
	ID          string `bson:"-" json:"id"`
	Testimonial string `bson:"testimonial" json:"testimonial"`
	Name        string `bson:"name" json:"name"`
	Designation string `bson:"designation" json:"designation"`
	Company     string `bson:"company" json:"company"`
	Image       string `bson:"image" json:"image"`
}

type Technology struct {
	ID   string `bson:"-" json:"id"`
	Name string `bson:"name" json:"name"`
	Icon string `bson:"icon" json:"icon"`
}

// ContactMessage is written once by the public contact form and only ever
// listed and deleted from the admin side.
type ContactMessage struct {
	ID        string    `bson:"-" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Decode maps raw document fields onto a typed display model via a bson
// round-trip, so the same tags serve Mongo documents and memory-store maps.
func Decode(fields store.Fields, out any) error {
	raw, err := bson.Marshal(bson.M(fields))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
