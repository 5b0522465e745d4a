package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedContent(t *testing.T) {
	c, err := loadContent("")
	require.NoError(t, err)

	p := c.Portfolio()
	assert.Contains(t, p.Profile.Name, "Dilshan Fonseka")
	assert.Len(t, p.Education, 3)
	assert.Len(t, p.Projects, 6)
	assert.Len(t, p.Skills, 3)
	assert.NotEmpty(t, p.Contact.Email)
}

func TestPortfolioReturnsCopy(t *testing.T) {
	c, err := loadContent("")
	require.NoError(t, err)

	p := c.Portfolio()
	title := p.Projects[0].Title
	tag := p.Projects[0].Tags[0]
	p.Projects[0].Title = "changed"
	p.Projects[0].Tags[0] = "changed"
	p.Skills[0].Skills = nil

	again := c.Portfolio()
	assert.Equal(t, title, again.Projects[0].Title)
	assert.Equal(t, tag, again.Projects[0].Tags[0])
	assert.NotEmpty(t, again.Skills[0].Skills)
}

func TestContentValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{
			name: "missing name and email",
			yaml: "profile: {title: dev}\n",
			want: []string{"profile: name is required", "contact: email is required"},
		},
		{
			name: "duplicate project",
			yaml: `
profile: {name: A}
contact: {email: a@example.com}
projects:
  - {title: One}
  - {title: One}
`,
			want: []string{`projects[1]: duplicate title "One"`},
		},
		{
			name: "incomplete education and empty skills",
			yaml: `
profile: {name: A}
contact: {email: a@example.com}
education:
  - {degree: BSc}
skills:
  - {title: Frontend}
`,
			want: []string{"education[0]: degree and institution are required", `skills[0] "Frontend": no skills listed`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseContent([]byte(tt.yaml))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.ErrorContains(t, err, w)
			}
		})
	}
}

func TestLoadContentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: {name: Someone}\ncontact: {email: s@example.com}\n"), 0o600))

	c, err := loadContent(path)
	require.NoError(t, err)
	assert.Equal(t, "Someone", c.Portfolio().Profile.Name)

	_, err = loadContent(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read content")

	require.NoError(t, os.WriteFile(path, []byte("profile: [not, a, map]\n"), 0o600))
	_, err = loadContent(path)
	assert.ErrorContains(t, err, "decode content")
}
