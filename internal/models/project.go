package models

import (
	"encoding/json"
	"time"
)

// Project is one listing row. List-valued fields are stored serialized as
// JSON text and parsed on read; malformed stored JSON degrades to an empty
// list rather than failing the whole response.
type Project struct {
	ID                   int64           `json:"id"`
	Slug                 string          `json:"slug"`
	Title                string          `json:"title"`
	LocationArea         string          `json:"location_area"`
	City                 string          `json:"city"`
	Address              string          `json:"address"`
	Rera                 *string         `json:"rera"`
	Status               *string         `json:"status"`
	PropertyType         *string         `json:"property_type"`
	Configurations       json.RawMessage `json:"configurations"`
	Blocks               *string         `json:"blocks"`
	Units                *string         `json:"units"`
	Floors               *string         `json:"floors"`
	LandArea             *string         `json:"land_area"`
	Description          *string         `json:"description"`
	Videos               []string        `json:"videos"`
	DeveloperName        *string         `json:"developer_name"`
	DeveloperLogo        *string         `json:"developer_logo"`
	DeveloperDescription *string         `json:"developer_description"`
	Highlights           []string        `json:"highlights"`
	Amenities            []string        `json:"amenities"`
	Gallery              []string        `json:"gallery"`
	Thumbnail            *string         `json:"thumbnail"`
	BrochureURL          *string         `json:"brochure_url"`
	ContactPhone         *string         `json:"contact_phone"`
	ContactEmail         *string         `json:"contact_email"`
	PriceInfo            json.RawMessage `json:"price_info"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ProjectRequest is the create/update body. Title and city are the only
// required fields; everything else defaults to empty list or null.
type ProjectRequest struct {
	Title                string          `json:"title" validate:"required"`
	Slug                 string          `json:"slug"`
	LocationArea         string          `json:"location_area"`
	City                 string          `json:"city" validate:"required"`
	Address              string          `json:"address"`
	Rera                 *string         `json:"rera"`
	Status               *string         `json:"status"`
	PropertyType         *string         `json:"property_type"`
	Configurations       json.RawMessage `json:"configurations"`
	Blocks               *string         `json:"blocks"`
	Units                *string         `json:"units"`
	Floors               *string         `json:"floors"`
	LandArea             *string         `json:"land_area"`
	Description          *string         `json:"description"`
	Videos               []string        `json:"videos"`
	DeveloperName        *string         `json:"developer_name"`
	DeveloperLogo        *string         `json:"developer_logo"`
	DeveloperDescription *string         `json:"developer_description"`
	Highlights           []string        `json:"highlights"`
	Amenities            []string        `json:"amenities"`
	Gallery              []string        `json:"gallery"`
	Thumbnail            *string         `json:"thumbnail"`
	BrochureURL          *string         `json:"brochure_url"`
	ContactPhone         *string         `json:"contact_phone"`
	ContactEmail         *string         `json:"contact_email"`
	PriceInfo            json.RawMessage `json:"price_info"`
}

// ToProject assembles a Project from the request, deriving the slug from the
// provided slug or falling back to the title.
func (r *ProjectRequest) ToProject() *Project {
	slug := r.Slug
	if slug == "" {
		slug = r.Title
	}
	return &Project{
		Slug:                 Slugify(slug),
		Title:                r.Title,
		LocationArea:         r.LocationArea,
		City:                 r.City,
		Address:              r.Address,
		Rera:                 r.Rera,
		Status:               r.Status,
		PropertyType:         r.PropertyType,
		Configurations:       r.Configurations,
		Blocks:               r.Blocks,
		Units:                r.Units,
		Floors:               r.Floors,
		LandArea:             r.LandArea,
		Description:          r.Description,
		Videos:               r.Videos,
		DeveloperName:        r.DeveloperName,
		DeveloperLogo:        r.DeveloperLogo,
		DeveloperDescription: r.DeveloperDescription,
		Highlights:           r.Highlights,
		Amenities:            r.Amenities,
		Gallery:              r.Gallery,
		Thumbnail:            r.Thumbnail,
		BrochureURL:          r.BrochureURL,
		ContactPhone:         r.ContactPhone,
		ContactEmail:         r.ContactEmail,
		PriceInfo:            r.PriceInfo,
	}
}
