package viewmodel

// Breadcrumb is one link in a page's trail. The current page has no URL.
type Breadcrumb struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Page identifies a portal page.
type Page string

const (
	PageHome                  Page = "home"
	PageManageData            Page = "manage-data"
	PageManageDataSourceFiles Page = "manage-data-source-files"
	PageUploadDataSourceFile  Page = "upload-data-source-file"
	PageCreateDataset         Page = "create-dataset"
	PageSpecifications        Page = "specifications"
	PageFundingManagement     Page = "funding-management"
	PageTemplateBuilder       Page = "template-builder"
	PageJobStatus             Page = "job-status"
)

type pageInfo struct {
	title  string
	url    string
	parent Page
}

var pages = map[Page]pageInfo{
	PageHome:                  {title: "Calculate funding", url: "/"},
	PageManageData:            {title: "Manage data", url: "/Datasets/ManageData", parent: PageHome},
	PageManageDataSourceFiles: {title: "Manage data source files", url: "/Datasets/ManageDataSourceFiles", parent: PageManageData},
	PageUploadDataSourceFile:  {title: "Upload data source file", url: "/Datasets/UploadDataSourceFile", parent: PageManageDataSourceFiles},
	PageCreateDataset:         {title: "Create dataset", url: "/Datasets/CreateDataset", parent: PageManageData},
	PageSpecifications:        {title: "View specifications", url: "/SpecificationsList", parent: PageHome},
	PageFundingManagement:     {title: "Funding management", url: "/FundingManagement", parent: PageHome},
	PageTemplateBuilder:       {title: "Template builder", url: "/Templates/List", parent: PageHome},
	PageJobStatus:             {title: "Job status", url: "/Jobs", parent: PageHome},
}

// Title returns the display title of p.
func (p Page) Title() string {
	return pages[p].title
}

// Trail returns the breadcrumbs from the portal home to p. The last entry is
// the current page and carries no link.
func Trail(p Page) []Breadcrumb {
	var chain []Page
	for cur := p; cur != ""; cur = pages[cur].parent {
		if _, ok := pages[cur]; !ok {
			break
		}
		chain = append(chain, cur)
	}

	out := make([]Breadcrumb, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		info := pages[chain[i]]
		crumb := Breadcrumb{Name: info.title}
		if i > 0 {
			crumb.URL = info.url
		}
		out = append(out, crumb)
	}
	return out
}
