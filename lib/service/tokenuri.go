package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avatarlabs/minthub.go/common"
)

// Profile is the metadata attached to an item at mint time.
type Profile struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Website      string `json:"website"`
	BodyType     string `json:"body_type"`
	OutfitGender string `json:"outfit_gender"`
	SkinTone     string `json:"skin_tone"`
	AvatarDate   string `json:"avatar_date"`
	ImageURI     string `json:"image_uri"`
}

// Validate enforces the basic shape constraints: an avatar needs a name and
// an image, everything else is optional flavor.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", common.ErrInvalidProfile)
	}
	if strings.TrimSpace(p.ImageURI) == "" {
		return fmt.Errorf("%w: image uri is required", common.ErrInvalidProfile)
	}
	return nil
}

type tokenMetadata struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	ExternalURL string           `json:"external_url,omitempty"`
	Attributes  []tokenAttribute `json:"attributes"`
}

type tokenAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// buildTokenURI assembles the ERC-721 style metadata document for an item
// and encodes it as a base64 data URI, the way on-chain collections publish
// fully self-contained token metadata.
func (svc *MinthubService) buildTokenURI(id int64, profile Profile) (string, error) {
	attributes := []tokenAttribute{}
	for _, attr := range []struct{ trait, value string }{
		{"Body Type", profile.BodyType},
		{"Outfit Gender", profile.OutfitGender},
		{"Skin Tone", profile.SkinTone},
		{"Created At", profile.AvatarDate},
	} {
		if attr.value != "" {
			attributes = append(attributes, tokenAttribute{TraitType: attr.trait, Value: attr.value})
		}
	}

	doc := tokenMetadata{
		Name:        fmt.Sprintf("%s %s - %s #%d", profile.FirstName, profile.LastName, svc.Config.CollectionName, id),
		Description: svc.Config.CollectionDescription,
		Image:       profile.ImageURI,
		ExternalURL: profile.Website,
		Attributes:  attributes,
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}
