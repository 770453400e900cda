package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/domain/template"
)

// GetTemplate returns template metadata together with its current content.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (model.TemplateSummary, error) {
	var out model.TemplateSummary
	err := c.getJSON(ctx, "/api/templates/"+url.PathEscape(templateID), nil, &out)
	return out, err
}

// UpdateTemplateContent replaces the template's content.
func (c *Client) UpdateTemplateContent(ctx context.Context, templateID string, content template.Template) error {
	path := "/api/templates/" + url.PathEscape(templateID) + "/content"
	return c.sendJSON(ctx, http.MethodPut, path, content, nil)
}

// EffectivePermissions returns what the user may do on a specification.
func (c *Client) EffectivePermissions(
	ctx context.Context,
	userID, specificationID string,
) (model.EffectivePermissions, error) {
	var out model.EffectivePermissions
	path := "/api/users/" + url.PathEscape(userID) + "/permissions/" + url.PathEscape(specificationID)
	err := c.getJSON(ctx, path, nil, &out)
	return out, err
}
