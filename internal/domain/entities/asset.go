package entities

import (
	"strings"

	"github.com/volatiletech/null/v8"
)

// AssetKind names a category of stored file
type AssetKind string

const (
	AssetPhoto     AssetKind = "photo"
	AssetCV        AssetKind = "cv"
	AssetEquipment AssetKind = "equipment"
	AssetNewsPDF   AssetKind = "news"
)

// ProfileAssetKinds are the kinds a member may upload for their own profile
var ProfileAssetKinds = []AssetKind{AssetPhoto, AssetCV, AssetEquipment}

// ParseProfileAssetKind accepts the path form used by the member API
func ParseProfileAssetKind(s string) (AssetKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "photo":
		return AssetPhoto, true
	case "cv":
		return AssetCV, true
	case "equipment", "equipment-list":
		return AssetEquipment, true
	}
	return "", false
}

// Column returns the freelancers table column holding the asset id
func (k AssetKind) Column() string {
	switch k {
	case AssetPhoto:
		return "photo_asset_id"
	case AssetCV:
		return "cv_asset_id"
	case AssetEquipment:
		return "equipment_asset_id"
	}
	return ""
}

// AssetUpload is a validated file ready to be stored
type AssetUpload struct {
	Kind        AssetKind
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// AssetID returns the stored asset id of kind on r
func (r FreelancerRecord) AssetID(kind AssetKind) null.String {
	switch kind {
	case AssetPhoto:
		return r.PhotoAssetID
	case AssetCV:
		return r.CVAssetID
	case AssetEquipment:
		return r.EquipmentAssetID
	}
	return null.String{}
}
