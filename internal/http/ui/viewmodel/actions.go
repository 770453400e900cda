package viewmodel

import "github.com/calcfunding/portal/internal/domain/model"

// Action is a button whose availability depends on a permission flag.
type Action struct {
	Name       string           `json:"name"`
	Label      string           `json:"label"`
	Permission model.Permission `json:"permission"`
	Disabled   bool             `json:"disabled"`
	Reason     string           `json:"reason,omitempty"`
}

// ActionState carries the non-permission conditions that can also disable an action.
type ActionState struct {
	Busy        bool
	BusyReason  string
	NothingToDo bool
}

// NewAction builds an action gated on perm. It is disabled whenever the
// permission is missing, regardless of state.
func NewAction(name, label string, perm model.Permission, perms *model.EffectivePermissions, state ActionState) Action {
	a := Action{Name: name, Label: label, Permission: perm}
	switch {
	case !perms.Has(perm):
		a.Disabled = true
		a.Reason = "You do not have permission to " + lowerFirst(label)
	case state.Busy:
		a.Disabled = true
		a.Reason = state.BusyReason
	case state.NothingToDo:
		a.Disabled = true
		a.Reason = "There is nothing to " + lowerFirst(label)
	}
	return a
}

// FundingActions returns the approve/release/refresh actions of the funding management page.
func FundingActions(perms *model.EffectivePermissions, state ActionState) []Action {
	return []Action{
		NewAction("approve", "Approve", model.PermissionApproveFunding, perms, state),
		NewAction("release", "Release", model.PermissionReleaseFunding, perms, state),
		NewAction("refresh", "Refresh funding", model.PermissionRefreshFunding, perms, state),
	}
}

// DataActions returns the push-data and upload actions of the data pages.
func DataActions(perms *model.EffectivePermissions, state ActionState) []Action {
	return []Action{
		NewAction("push-data", "Push data", model.PermissionMapDatasets, perms, state),
		NewAction("upload", "Upload", model.PermissionUploadDataSourceFiles, perms, state),
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
