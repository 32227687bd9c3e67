package assets

import (
	"fmt"
	"strings"
)

const DefaultImagePath = "/assets/images/%d"

// Resolver maps an image reference id to a path clients can fetch.
type Resolver interface {
	ImagePath(id int64) string
}

// TemplateResolver formats ids into a printf template holding exactly one
// integer verb.
type TemplateResolver struct {
	template string
}

func NewTemplateResolver(template string) (*TemplateResolver, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		template = DefaultImagePath
	}
	if strings.Count(template, "%d") != 1 || strings.Count(template, "%") != 1 {
		return nil, fmt.Errorf("image path template %q must contain exactly one %%d", template)
	}
	return &TemplateResolver{template: template}, nil
}

func (r *TemplateResolver) ImagePath(id int64) string {
	return fmt.Sprintf(r.template, id)
}
