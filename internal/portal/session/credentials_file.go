package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// credentials is the single on-disk document. Token and identity live
// together so a partial write can never leave one without the other.
type credentials struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// CredentialsFile persists the session between runs. Writes go through
// a temp file and an atomic rename.
type CredentialsFile struct {
	path string
}

func NewCredentialsFile(path string) *CredentialsFile {
	return &CredentialsFile{path: path}
}

// Load reads the stored credentials. A missing or malformed file is
// reported as fs.ErrNotExist so callers treat both as an absent session.
func (f *CredentialsFile) Load() (credentials, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return credentials{}, fs.ErrNotExist
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return credentials{}, fs.ErrNotExist
	}
	if creds.Token == "" || creds.Identity.UserID == "" {
		return credentials{}, fs.ErrNotExist
	}
	return creds, nil
}

func (f *CredentialsFile) Save(creds credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, f.path)
}

// Clear removes the file. Removing an absent file is not an error.
func (f *CredentialsFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
