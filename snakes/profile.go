package snakes

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Profile remembers the server and display name used last time.
type Profile struct {
	Name     string `json:"-"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

func profileDir() string {
	return filepath.Join(xdg.DataHome, "snakes")
}

// RestoreProfile loads the profile called name from the user's data directory.
func RestoreProfile(name string) (Profile, error) {
	if name == "" {
		return Profile{}, errors.New("empty name")
	}
	data, err := os.ReadFile(filepath.Join(profileDir(), name+".json"))
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	err = json.Unmarshal(data, &profile)

	profile.Name = name

	return profile, err
}

func (p Profile) Save() error {
	if p.Name == "" {
		return errors.New("empty name")
	}
	dir := profileDir()
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, p.Name+".json"), data, 0644)
}

func (p Profile) Remove() error {
	if p.Name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(profileDir(), p.Name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
