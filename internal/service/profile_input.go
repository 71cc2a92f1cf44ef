package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/validation"
)

// Skills accepts either a comma-separated string or a JSON array.
// A string is split on commas and trimmed; an array is kept as sent.
type Skills []string

func (s *Skills) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*s = SplitSkills(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("skills must be a string or a list of strings: %w", err)
	}
	*s = list
	return nil
}

// SplitSkills splits a comma-delimited list and trims each entry.
func SplitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ProfileInput is a partial profile. Nil fields are left untouched.
type ProfileInput struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GithubUsername *string `json:"githubusername"`
	Skills         *Skills `json:"skills"`

	Youtube   *string `json:"youtube"`
	Twitter   *string `json:"twitter"`
	Facebook  *string `json:"facebook"`
	Linkedin  *string `json:"linkedin"`
	Instagram *string `json:"instagram"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Validate requires status and skills on every submission.
func (in ProfileInput) Validate() error {
	skills := 0
	if in.Skills != nil {
		for _, s := range *in.Skills {
			if strings.TrimSpace(s) != "" {
				skills++
			}
		}
	}
	return validation.New().
		Required("status", deref(in.Status), "Status is required").
		Check(skills > 0, "skills", "Skills is required").
		URL("website", deref(in.Website), "Website must be a valid URL").
		Err()
}

func (in ProfileInput) social() map[string]*string {
	return map[string]*string{
		"youtube":   in.Youtube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.Linkedin,
		"instagram": in.Instagram,
	}
}

// apply merges the present fields into p.
func (in ProfileInput) apply(p *models.Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GithubUsername, in.GithubUsername)
	if in.Skills != nil {
		p.Skills = append(p.Skills[:0:0], *in.Skills...)
	}

	social := in.social()
	for _, platform := range models.SocialPlatforms {
		if url := social[platform]; url != nil {
			p.SetSocial(platform, *url)
		}
	}
}

// ExperienceInput is the body of an experience submission.
type ExperienceInput struct {
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	From        models.Date  `json:"from"`
	To          *models.Date `json:"to"`
	Current     bool         `json:"current"`
	Description string       `json:"description"`
}

func (in ExperienceInput) Validate() error {
	return validation.New().
		Required("title", in.Title, "Title is required").
		Required("company", in.Company, "Company is required").
		Check(!in.From.IsZero(), "from", "From date is required").
		Err()
}

func (in ExperienceInput) entry(id models.EntryID) models.Experience {
	e := models.Experience{
		ID:          id,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	if e.Current || (e.To != nil && e.To.IsZero()) {
		e.To = nil
	}
	return e
}

// EducationInput is the body of an education submission.
type EducationInput struct {
	School       string       `json:"school"`
	Degree       string       `json:"degree"`
	FieldOfStudy string       `json:"fieldofstudy"`
	From         models.Date  `json:"from"`
	To           *models.Date `json:"to"`
	Current      bool         `json:"current"`
	Description  string       `json:"description"`
}

func (in EducationInput) Validate() error {
	return validation.New().
		Required("school", in.School, "School is required").
		Required("degree", in.Degree, "Degree is required").
		Required("fieldofstudy", in.FieldOfStudy, "Field of study is required").
		Check(!in.From.IsZero(), "from", "From date is required").
		Err()
}

func (in EducationInput) entry(id models.EntryID) models.Education {
	e := models.Education{
		ID:           id,
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	if e.Current || (e.To != nil && e.To.IsZero()) {
		e.To = nil
	}
	return e
}
