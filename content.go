package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Profile struct {
	Badge       string `yaml:"badge"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	Photo       string `yaml:"photo"`
	ProjectsURL string `yaml:"projects_url"`
	Socials     []Link `yaml:"socials"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type About struct {
	Heading    string   `yaml:"heading"`
	Highlight  string   `yaml:"highlight"`
	Photo      string   `yaml:"photo"`
	Paragraphs []string `yaml:"paragraphs"`
	Stats      []Stat   `yaml:"stats"`
}

type Education struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Location    string `yaml:"location"`
	Period      string `yaml:"period"`
	Logo        string `yaml:"logo"`
	Description string `yaml:"description"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Image       string   `yaml:"image"`
	Link        string   `yaml:"link"`
}

type Skill struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type ContactInfo struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

type Footer struct {
	Blurb   string `yaml:"blurb"`
	Socials []Link `yaml:"socials"`
}

// Portfolio is everything the page renders. It is loaded once at startup and
// handed out by value through Content.Portfolio.
type Portfolio struct {
	Profile   Profile         `yaml:"profile"`
	About     About           `yaml:"about"`
	Education []Education     `yaml:"education"`
	Projects  []Project       `yaml:"projects"`
	Skills    []SkillCategory `yaml:"skills"`
	Contact   ContactInfo     `yaml:"contact"`
	Footer    Footer          `yaml:"footer"`
}

// Content holds the validated portfolio. It is read-only after load.
type Content struct {
	p Portfolio
}

// loadContent reads the portfolio from path, or the embedded default when
// path is empty.
func loadContent(path string) (*Content, error) {
	data := defaultContent
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
	}
	return parseContent(data)
}

func parseContent(data []byte) (*Content, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Content{p: p}, nil
}

// Validate checks the records the templates depend on.
func (p Portfolio) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Profile.Name) == "" {
		errs = append(errs, errors.New("profile: name is required"))
	}
	for i, e := range p.Education {
		if e.Degree == "" || e.Institution == "" {
			errs = append(errs, fmt.Errorf("education[%d]: degree and institution are required", i))
		}
	}
	seen := make(map[string]bool)
	for i, pr := range p.Projects {
		switch {
		case pr.Title == "":
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		case seen[pr.Title]:
			errs = append(errs, fmt.Errorf("projects[%d]: duplicate title %q", i, pr.Title))
		}
		seen[pr.Title] = true
	}
	for i, c := range p.Skills {
		if len(c.Skills) == 0 {
			errs = append(errs, fmt.Errorf("skills[%d] %q: no skills listed", i, c.Title))
		}
	}
	if p.Contact.Email == "" {
		errs = append(errs, errors.New("contact: email is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}

// Portfolio returns a deep copy, so templates and handlers can never change
// the loaded data.
func (c *Content) Portfolio() Portfolio {
	p := c.p
	p.Profile.Socials = slices.Clone(p.Profile.Socials)
	p.About.Paragraphs = slices.Clone(p.About.Paragraphs)
	p.About.Stats = slices.Clone(p.About.Stats)
	p.Education = slices.Clone(p.Education)
	p.Projects = slices.Clone(p.Projects)
	for i := range p.Projects {
		p.Projects[i].Tags = slices.Clone(p.Projects[i].Tags)
	}
	p.Skills = slices.Clone(p.Skills)
	for i := range p.Skills {
		p.Skills[i].Skills = slices.Clone(p.Skills[i].Skills)
	}
	p.Footer.Socials = slices.Clone(p.Footer.Socials)
	return p
}
