package specification

import (
	"gorm.io/gorm"
)

type ByCountry struct {
	Country string
}

func (s ByCountry) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("country = ?", s.Country)
}

type ByLanguage struct {
	Language string
}

func (s ByLanguage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("language = ?", s.Language)
}

type BySourceURL struct {
	SourceURL string
}

func (s BySourceURL) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_url = ?", s.SourceURL)
}
