package domain

// OrgWhitelistEntry identifies one organization permitted in restricted mode.
type OrgWhitelistEntry struct {
	ID      string `json:"id,omitempty"`
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	AddedAt string `json:"addedAt,omitempty"`
	AddedBy string `json:"addedBy,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// FeatureRestrictions narrows what the UI may offer when a secure config is
// present. A nil flag leaves that feature unrestricted.
type FeatureRestrictions struct {
	AllowWebSearch          *bool `json:"allowWebSearch,omitempty"`
	AllowVectorStore        *bool `json:"allowVectorStore,omitempty"`
	AllowFileUpload         *bool `json:"allowFileUpload,omitempty"`
	AllowChatFileAttachment *bool `json:"allowChatFileAttachment,omitempty"`
}

// WebSearchAllowed reports the effective web-search flag.
func (f *FeatureRestrictions) WebSearchAllowed() bool {
	return f == nil || f.AllowWebSearch == nil || *f.AllowWebSearch
}

// VectorStoreAllowed reports the effective vector-store flag.
func (f *FeatureRestrictions) VectorStoreAllowed() bool {
	return f == nil || f.AllowVectorStore == nil || *f.AllowVectorStore
}

// FileUploadAllowed reports the effective file-upload flag.
func (f *FeatureRestrictions) FileUploadAllowed() bool {
	return f == nil || f.AllowFileUpload == nil || *f.AllowFileUpload
}

// ChatFileAttachmentAllowed reports the effective chat-attachment flag.
func (f *FeatureRestrictions) ChatFileAttachmentAllowed() bool {
	return f == nil || f.AllowChatFileAttachment == nil || *f.AllowChatFileAttachment
}

// SecureConfig is the distributed restricted-mode configuration (config.pkg).
// All fields are optional; a missing file means the app runs unrestricted.
type SecureConfig struct {
	Version           *int                 `json:"version,omitempty"`
	OrgWhitelist      []OrgWhitelistEntry  `json:"orgWhitelist"`
	AdminPasswordHash string               `json:"adminPasswordHash,omitempty"`
	Features          *FeatureRestrictions `json:"features,omitempty"`
	Signature         string               `json:"signature,omitempty"`
}

// IsOrgWhitelisted reports whether orgID appears in the whitelist. An empty
// whitelist permits nothing.
func (c *SecureConfig) IsOrgWhitelisted(orgID string) bool {
	if c == nil {
		return true
	}
	for _, entry := range c.OrgWhitelist {
		if entry.OrgID == orgID {
			return true
		}
	}
	return false
}

// SettingsCandidate is one location searched for the secure config file.
type SettingsCandidate struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// SettingsResult is the outcome of secure-config discovery. Config is nil
// when no usable file was found anywhere.
type SettingsResult struct {
	Config   *SecureConfig       `json:"config,omitempty"`
	Path     string              `json:"path,omitempty"`
	Searched []SettingsCandidate `json:"searched,omitempty"`
}

// Restricted reports whether a secure config was found and therefore
// restricted mode is active.
func (r *SettingsResult) Restricted() bool {
	return r != nil && r.Config != nil
}
