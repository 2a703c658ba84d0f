// Package uploads produces the signed parameter sets the mobile client needs
// to push punch photos to the object store. Only the signing math lives
// here; talking to the provider is the client's job.
package uploads

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Signer struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Credential is everything the client needs for one direct upload. Only the
// fields inside Params were signed; the rest is advisory.
type Credential struct {
	Timestamp   int64             `json:"timestamp"`
	Signature   string            `json:"signature"`
	CloudName   string            `json:"cloudName"`
	APIKey      string            `json:"apiKey"`
	Params      map[string]string `json:"params"`
	PublicID    string            `json:"public_id"`
	MaxFileSize int64             `json:"max_file_size"`
}

func (s Signer) Configured() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

// Sign hashes the sorted k=v parameter string with the API secret appended,
// per the upload provider's signature contract.
func (s Signer) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + s.APISecret))
	return hex.EncodeToString(digest[:])
}

// PunchPhotoCredential builds the signed parameter set for a punch photo:
// images land under punch_images/<tenant>/<customer> tagged with tenant and
// user so they stay attributable.
func (s Signer) PunchPhotoCredential(clientID, customerName, username string, now time.Time) Credential {
	timestamp := now.Unix()
	folder := fmt.Sprintf("punch_images/%s/%s", clientID, customerName)
	publicID := fmt.Sprintf("%s/%s%s", folder, username, now.Format("2006-01-02"))

	params := map[string]string{
		"timestamp":       fmt.Sprintf("%d", timestamp),
		"folder":          folder,
		"allowed_formats": "jpg,png,jpeg",
		"tags":            fmt.Sprintf("client_%s,user_%s", clientID, username),
		"public_id":       publicID,
	}

	return Credential{
		Timestamp:   timestamp,
		Signature:   s.Sign(params),
		CloudName:   s.CloudName,
		APIKey:      s.APIKey,
		Params:      params,
		PublicID:    publicID,
		MaxFileSize: 5_000_000,
	}
}
