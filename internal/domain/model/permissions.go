package model

// Permission names an action a user may be allowed to perform on a specification.
type Permission string

const (
	PermissionApproveFunding        Permission = "CanApproveFunding"
	PermissionReleaseFunding        Permission = "CanReleaseFunding"
	PermissionRefreshFunding        Permission = "CanRefreshFunding"
	PermissionMapDatasets           Permission = "CanMapDatasets"
	PermissionUploadDataSourceFiles Permission = "CanUploadDataSourceFiles"
	PermissionEditTemplates         Permission = "CanEditTemplates"
	PermissionApproveTemplates      Permission = "CanApproveTemplates"
	PermissionCreateSpecification   Permission = "CanCreateSpecification"
	PermissionRunSQLImport          Permission = "CanRunSqlImport"
)

// EffectivePermissions is the caller's permission set for one specification.
type EffectivePermissions struct {
	UserID                   string `json:"userId,omitempty"`
	SpecificationID          string `json:"specificationId"`
	CanApproveFunding        bool   `json:"canApproveFunding"`
	CanReleaseFunding        bool   `json:"canReleaseFunding"`
	CanRefreshFunding        bool   `json:"canRefreshFunding"`
	CanMapDatasets           bool   `json:"canMapDatasets"`
	CanUploadDataSourceFiles bool   `json:"canUploadDataSourceFiles"`
	CanEditTemplates         bool   `json:"canEditTemplates"`
	CanApproveTemplates      bool   `json:"canApproveTemplates"`
	CanCreateSpecification   bool   `json:"canCreateSpecification"`
	CanRunSQLImport          bool   `json:"canRunSqlImport"`
}

// Has reports whether the permission flag is set. Nil permissions grant nothing.
func (p *EffectivePermissions) Has(perm Permission) bool {
	if p == nil {
		return false
	}
	switch perm {
	case PermissionApproveFunding:
		return p.CanApproveFunding
	case PermissionReleaseFunding:
		return p.CanReleaseFunding
	case PermissionRefreshFunding:
		return p.CanRefreshFunding
	case PermissionMapDatasets:
		return p.CanMapDatasets
	case PermissionUploadDataSourceFiles:
		return p.CanUploadDataSourceFiles
	case PermissionEditTemplates:
		return p.CanEditTemplates
	case PermissionApproveTemplates:
		return p.CanApproveTemplates
	case PermissionCreateSpecification:
		return p.CanCreateSpecification
	case PermissionRunSQLImport:
		return p.CanRunSQLImport
	default:
		return false
	}
}

// ValidationFailureResponse is the body the backend returns for 400 responses.
type ValidationFailureResponse struct {
	Failures       map[string][]string `json:"failures,omitempty"`
	ErrorReportURL string              `json:"errorReportUrl,omitempty"`
	Message        string              `json:"message,omitempty"`
}
