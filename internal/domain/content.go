package domain

// Announcement is a news item shown in the home carousel and story portal.
type Announcement struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	Link     string `json:"link" yaml:"link"`
	Active   bool   `json:"active" yaml:"active"`
}

// Challenge is an innovation challenge posted by a corporate collaborator.
type Challenge struct {
	ID           string   `json:"id" yaml:"id"`
	CompanyName  string   `json:"company_name" yaml:"company_name"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Reward       string   `json:"reward" yaml:"reward"`
	SkillsNeeded []string `json:"skills_needed" yaml:"skills_needed"`
}

// SiteSettings holds the admin branding for one app session.
type SiteSettings struct {
	PlatformName string `json:"platform_name"`
	PrimaryColor string `json:"primary_color"`
	LogoURL      string `json:"logo_url"`
}

// DefaultSiteSettings returns the branding a fresh session starts with.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		PlatformName: "InnoSpark",
		PrimaryColor: "#10b981",
	}
}
