package models

import (
	"time"

	"gorm.io/datatypes"
)

// Social platforms accepted on a profile.
var SocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// Experience is a job entry on a profile.
type Experience struct {
	ID          EntryID `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location,omitempty"`
	From        Date    `json:"from"`
	To          *Date   `json:"to,omitempty"`
	Current     bool    `json:"current"`
	Description string  `json:"description,omitempty"`
}

// Education is a school entry on a profile.
type Education struct {
	ID           EntryID `json:"id"`
	School       string  `json:"school"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldofstudy"`
	From         Date    `json:"from"`
	To           *Date   `json:"to,omitempty"`
	Current      bool    `json:"current"`
	Description  string  `json:"description,omitempty"`
}

// Profile is the developer profile owned by exactly one user.
type Profile struct {
	ID             uint                            `gorm:"primaryKey" json:"id"`
	UserID         uint                            `gorm:"uniqueIndex;not null" json:"-"`
	User           *User                           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company        string                          `json:"company,omitempty"`
	Website        string                          `json:"website,omitempty"`
	Location       string                          `json:"location,omitempty"`
	Status         string                          `gorm:"not null" json:"status"`
	Skills         datatypes.JSONSlice[string]     `json:"skills"`
	Bio            string                          `json:"bio,omitempty"`
	GithubUsername string                          `json:"githubusername,omitempty"`
	Experience     datatypes.JSONSlice[Experience] `json:"experience"`
	Education      datatypes.JSONSlice[Education]  `json:"education"`
	Social         map[string]string               `gorm:"serializer:json;type:text" json:"social,omitempty"`
	Version        int                             `gorm:"not null;default:1" json:"-"`
	Date           time.Time                       `gorm:"autoCreateTime" json:"date"`
	UpdatedAt      time.Time                       `json:"-"`
}

// PrependExperience puts e at the head of the experience list.
func (p *Profile) PrependExperience(e Experience) {
	p.Experience = prepend(p.Experience, e)
}

// ExperienceIndex locates an experience entry by id.
func (p *Profile) ExperienceIndex(id EntryID) (int, bool) {
	return indexWhere(p.Experience, func(e Experience) bool { return e.ID == id })
}

// RemoveExperience drops the entry with id and reports whether it existed.
func (p *Profile) RemoveExperience(id EntryID) bool {
	i, ok := p.ExperienceIndex(id)
	if !ok {
		return false
	}
	p.Experience = removeAt(p.Experience, i)
	return true
}

// PrependEducation puts e at the head of the education list.
func (p *Profile) PrependEducation(e Education) {
	p.Education = prepend(p.Education, e)
}

// EducationIndex locates an education entry by id.
func (p *Profile) EducationIndex(id EntryID) (int, bool) {
	return indexWhere(p.Education, func(e Education) bool { return e.ID == id })
}

// RemoveEducation drops the entry with id and reports whether it existed.
func (p *Profile) RemoveEducation(id EntryID) bool {
	i, ok := p.EducationIndex(id)
	if !ok {
		return false
	}
	p.Education = removeAt(p.Education, i)
	return true
}

// SetSocial records url for platform, creating the map on first use.
func (p *Profile) SetSocial(platform, url string) {
	if p.Social == nil {
		p.Social = make(map[string]string)
	}
	p.Social[platform] = url
}
