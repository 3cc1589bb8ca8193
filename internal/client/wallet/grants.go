package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/filex"
)

// Grant records that a site was allowed to use the wallet.
type Grant struct {
	Site      string    `json:"site"`
	Address   string    `json:"address"`
	GrantedAt time.Time `json:"granted_at"`
}

type grantsFile struct {
	Sites map[string]Grant `json:"sites"`
}

func loadGrants(dir string) (*grantsFile, error) {
	g := &grantsFile{Sites: map[string]Grant{}}

	data, err := os.ReadFile(filepath.Join(dir, GrantsFileName))
	if errors.Is(err, os.ErrNotExist) {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read grants: %w", err)
	}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parse grants: %w", err)
	}
	if g.Sites == nil {
		g.Sites = map[string]Grant{}
	}
	return g, nil
}

func (g *grantsFile) save(dir string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(filepath.Join(dir, GrantsFileName), data, 0o600)
}

// ListGrants returns the grants stored in dir sorted by site.
func ListGrants(dir string) ([]Grant, error) {
	g, err := loadGrants(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Grant, 0, len(g.Sites))
	for _, v := range g.Sites {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out, nil
}

// RevokeGrant removes the grant for site. It reports whether one existed.
func RevokeGrant(dir, site string) (bool, error) {
	g, err := loadGrants(dir)
	if err != nil {
		return false, err
	}
	if _, ok := g.Sites[site]; !ok {
		return false, nil
	}
	delete(g.Sites, site)
	return true, g.save(dir)
}

// AddGrant allows site to use the wallet without prompting.
func AddGrant(dir, site, address string) error {
	g, err := loadGrants(dir)
	if err != nil {
		return err
	}
	g.Sites[site] = Grant{Site: site, Address: address, GrantedAt: time.Now().UTC()}
	return g.save(dir)
}
