package models

// Expert is a clinician listed on the site.
type Expert struct {
	ID          string   `bson:"id" json:"id" yaml:"id"`
	Slug        string   `bson:"slug" json:"slug" yaml:"slug"`
	Name        string   `bson:"name" json:"name" yaml:"name"`
	Title       string   `bson:"title" json:"title" yaml:"title"`
	Specialties []string `bson:"specialties" json:"specialties" yaml:"specialties"`
	Experience  int      `bson:"experience" json:"experience" yaml:"experience"` // years
	Image       string   `bson:"image" json:"image" yaml:"image"`
}

// Service is a therapy offering that can be booked.
type Service struct {
	ID          string `bson:"id" json:"id" yaml:"id"`
	Slug        string `bson:"slug" json:"slug" yaml:"slug"`
	Name        string `bson:"name" json:"name" yaml:"name"`
	Description string `bson:"description" json:"description" yaml:"description"`
	Icon        string `bson:"icon" json:"icon" yaml:"icon"`
	Category    string `bson:"category" json:"category" yaml:"category"`
}

// FindExpertBySlug returns the expert whose slug matches, or nil.
func FindExpertBySlug(experts []Expert, slug string) *Expert {
	for i := range experts {
		if experts[i].Slug == slug {
			return &experts[i]
		}
	}
	return nil
}

// FindServiceBySlug returns the service whose slug matches, or nil.
func FindServiceBySlug(services []Service, slug string) *Service {
	for i := range services {
		if services[i].Slug == slug {
			return &services[i]
		}
	}
	return nil
}
