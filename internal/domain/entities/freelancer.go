package entities

import (
	"github.com/volatiletech/null/v8"
)

// LinkType is one of the fixed profile link kinds. The set is closed.
type LinkType string

const (
	LinkWebsite   LinkType = "Website"
	LinkInstagram LinkType = "Instagram"
	LinkImdb      LinkType = "Imdb"
	LinkLinkedIn  LinkType = "LinkedIn"
)

// LinkTypes lists every supported link type in display order
var LinkTypes = []LinkType{LinkWebsite, LinkInstagram, LinkImdb, LinkLinkedIn}

// FreelancerRecord is one crew member as exposed by the freelancer view
type FreelancerRecord struct {
	ID               int64       `json:"id"`
	Slug             string      `json:"slug"`
	DisplayName      string      `json:"displayName"`
	Bio              null.String `json:"bio"`
	PhotoAssetID     null.String `json:"photoAssetId"`
	CVAssetID        null.String `json:"cvAssetId"`
	EquipmentAssetID null.String `json:"equipmentAssetId"`
}

// SkillMembership links a freelancer to a (department, skill) pair
type SkillMembership struct {
	FreelancerID   int64  `json:"freelancerId"`
	DepartmentID   int64  `json:"departmentId"`
	DepartmentSlug string `json:"departmentSlug"`
	DepartmentName string `json:"departmentName"`
	SkillID        int64  `json:"skillId"`
	SkillSlug      string `json:"skillSlug"`
	SkillName      string `json:"skillName"`
}

// Info returns the descriptive part of the membership
func (m SkillMembership) Info() SkillInfo {
	return SkillInfo{
		DepartmentID:   m.DepartmentID,
		DepartmentSlug: m.DepartmentSlug,
		DepartmentName: m.DepartmentName,
		SkillID:        m.SkillID,
		SkillSlug:      m.SkillSlug,
		SkillName:      m.SkillName,
	}
}

// LinkRecord is a stored outbound link. LinkType holds the raw stored value,
// whose casing and spacing is not guaranteed to match the LinkType constants.
type LinkRecord struct {
	ID           int64  `json:"id"`
	FreelancerID int64  `json:"freelancerId"`
	LinkType     string `json:"linkType"`
	URL          string `json:"url"`
}

// SkillInfo describes a skill and the department it belongs to
type SkillInfo struct {
	DepartmentID   int64  `json:"departmentId"`
	DepartmentSlug string `json:"departmentSlug"`
	DepartmentName string `json:"departmentName"`
	SkillID        int64  `json:"skillId"`
	SkillSlug      string `json:"skillSlug"`
	SkillName      string `json:"skillName"`
}

// ProfileLinks always serializes all four keys; unset links are null
type ProfileLinks struct {
	Website   null.String `json:"Website"`
	Instagram null.String `json:"Instagram"`
	Imdb      null.String `json:"Imdb"`
	LinkedIn  null.String `json:"LinkedIn"`
}

// Set assigns url to the field for t. Unknown types are ignored.
func (l *ProfileLinks) Set(t LinkType, url string) {
	switch t {
	case LinkWebsite:
		l.Website = null.StringFrom(url)
	case LinkInstagram:
		l.Instagram = null.StringFrom(url)
	case LinkImdb:
		l.Imdb = null.StringFrom(url)
	case LinkLinkedIn:
		l.LinkedIn = null.StringFrom(url)
	}
}

// Get returns the link stored for t
func (l ProfileLinks) Get(t LinkType) null.String {
	switch t {
	case LinkWebsite:
		return l.Website
	case LinkInstagram:
		return l.Instagram
	case LinkImdb:
		return l.Imdb
	case LinkLinkedIn:
		return l.LinkedIn
	}
	return null.String{}
}

// FreelancerSummary is the presentation shape used in listings
type FreelancerSummary struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Bio              null.String  `json:"bio"`
	PhotoURL         null.String  `json:"photoUrl"`
	CVURL            null.String  `json:"cvUrl"`
	EquipmentListURL null.String  `json:"equipmentListUrl"`
	Links            ProfileLinks `json:"links"`
}

// FreelancerProjection is the full profile returned for a single freelancer
type FreelancerProjection struct {
	FreelancerSummary
	Skills []SkillInfo `json:"skills"`
}

// SkillListing is every freelancer holding one skill
type SkillListing struct {
	Skill           SkillInfo           `json:"skill"`
	Freelancers     []FreelancerSummary `json:"freelancers"`
	FreelancerCount int                 `json:"freelancerCount"`
}

// Department groups skills for directory browsing
type Department struct {
	ID     int64            `json:"id"`
	Slug   string           `json:"slug"`
	Name   string           `json:"name"`
	Skills []DirectorySkill `json:"skills"`
}

// DirectorySkill is a skill entry in the directory with its member count
type DirectorySkill struct {
	ID              int64  `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	FreelancerCount int    `json:"freelancerCount"`
}

// LinkGap reports a freelancer whose link rows are incomplete
type LinkGap struct {
	FreelancerID int64      `json:"freelancerId"`
	Slug         string     `json:"slug"`
	DisplayName  string     `json:"displayName"`
	LinkRowCount int        `json:"linkRowCount"`
	Missing      []LinkType `json:"missing"`
}

// UpdateProfileInput holds the member editable base fields. Nil means unchanged.
type UpdateProfileInput struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

// UpdateLinksInput holds submitted links. Nil means unchanged, "" clears.
type UpdateLinksInput struct {
	Website   *string `json:"Website"`
	Instagram *string `json:"Instagram"`
	Imdb      *string `json:"Imdb"`
	LinkedIn  *string `json:"LinkedIn"`
}

// Get returns the submitted value for t
func (in UpdateLinksInput) Get(t LinkType) *string {
	switch t {
	case LinkWebsite:
		return in.Website
	case LinkInstagram:
		return in.Instagram
	case LinkImdb:
		return in.Imdb
	case LinkLinkedIn:
		return in.LinkedIn
	}
	return nil
}

// LinkUpdateResult reports what an UpdateLinks call did per link type
type LinkUpdateResult struct {
	Updated   []LinkType `json:"updated"`
	Unchanged []LinkType `json:"unchanged"`
	Missing   []LinkType `json:"missing"`
}

// ProfileUpdateResponse is returned from profile writes
type ProfileUpdateResponse struct {
	Freelancer *FreelancerProjection `json:"freelancer"`
	Links      *LinkUpdateResult     `json:"links,omitempty"`
}
