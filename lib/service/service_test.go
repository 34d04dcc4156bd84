package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/pricing"
)

func testContext() context.Context {
	return context.Background()
}

func TestEscalatedFee(t *testing.T) {
	initial, err := pricing.ParseUSD("10")
	assert.NoError(t, err)

	doubled := escalatedFee(initial, 2)
	assert.Equal(t, "20", pricing.FormatUSD(doubled))

	// Escalation compounds: applying the step twice squares the factor.
	quadrupled := escalatedFee(doubled, 2)
	assert.Equal(t, "40", pricing.FormatUSD(quadrupled))

	// The input is never mutated.
	assert.Equal(t, "10", pricing.FormatUSD(initial))
}

func TestProfileValidate(t *testing.T) {
	valid := Profile{FirstName: "Ada", LastName: "Lovelace", ImageURI: "ipfs://avatar"}
	assert.NoError(t, valid.Validate())

	missingName := Profile{FirstName: " ", LastName: "Lovelace", ImageURI: "ipfs://avatar"}
	assert.ErrorIs(t, missingName.Validate(), common.ErrInvalidProfile)

	missingImage := Profile{FirstName: "Ada", LastName: "Lovelace"}
	assert.ErrorIs(t, missingImage.Validate(), common.ErrInvalidProfile)
}

func TestBuildTokenURI(t *testing.T) {
	svc := &MinthubService{Config: &Config{
		CollectionName:        "Avatar NFT Me",
		CollectionDescription: "test collection",
	}}

	uri, err := svc.buildTokenURI(7, Profile{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Website:      "https://example.com",
		BodyType:     "athletic",
		OutfitGender: "female",
		SkinTone:     "olive",
		AvatarDate:   "2024-01-16",
		ImageURI:     "ipfs://avatar",
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:application/json;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:application/json;base64,"))
	assert.NoError(t, err)

	var doc tokenMetadata
	assert.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Ada Lovelace - Avatar NFT Me #7", doc.Name)
	assert.Equal(t, "ipfs://avatar", doc.Image)
	assert.Equal(t, "https://example.com", doc.ExternalURL)
	assert.Len(t, doc.Attributes, 4)

	// Empty traits are omitted rather than serialized as blanks.
	uri, err = svc.buildTokenURI(8, Profile{FirstName: "Ada", LastName: "Lovelace", ImageURI: "ipfs://avatar"})
	assert.NoError(t, err)
	raw, _ = base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:application/json;base64,"))
	assert.NoError(t, json.Unmarshal(raw, &doc))
	assert.Empty(t, doc.Attributes)
}

func TestMintRequestAmountGuard(t *testing.T) {
	// The zero/negative amount guard runs before anything else, so a
	// service with no collaborators wired is enough to exercise it.
	svc := &MinthubService{Config: &Config{}}

	_, err := svc.Mint(testContext(), MintRequest{Amount: big.NewInt(0)})
	assert.ErrorIs(t, err, common.ErrZeroPayment)

	_, err = svc.Mint(testContext(), MintRequest{Amount: big.NewInt(-5)})
	assert.ErrorIs(t, err, common.ErrZeroPayment)

	_, err = svc.Mint(testContext(), MintRequest{})
	assert.ErrorIs(t, err, common.ErrZeroPayment)
}
