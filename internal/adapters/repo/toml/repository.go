package toml

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/garm/internal/domain"
	"github.com/bnema/garm/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	accountsPathKey    = "accounts.path"
	accountsFileMode   = 0o600
	accountsDirMode    = 0o700
	accountsConfigDir  = ".garm"
	accountsConfigFile = "accounts.toml"
	tempFilePattern    = ".accounts-*.toml.tmp"
)

var (
	errNoKeyStore       = errors.New("account references a stored key but no key store is configured")
	errInvalidCreatedAt = errors.New("invalid created_at")
)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type Repository struct {
	accountsPath string
	keys         ports.KeyStore
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AccountRepository = (*Repository)(nil)

// NewRepository opens the account file named by accounts.path. When keys is
// nil, public keys are kept inline in the account file.
func NewRepository(cfg *viper.Viper, keys ports.KeyStore) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(accountsPathKey, filepath.Join(homeDir, accountsConfigDir, accountsConfigFile))

	accountsPath := cfg.GetString(accountsPathKey)
	if accountsPath == "" {
		return nil, errors.New("accounts path is empty")
	}
	accountsPath, err = normalizeAccountsPath(accountsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{accountsPath: accountsPath, keys: keys, mu: lockForPath(accountsPath)}, nil
}

func (r *Repository) FindByHandle(ctx context.Context, handle string) (domain.Account, error) {
	return r.find(ctx, func(entry accountSchema) bool {
		return entry.Handle == handle
	})
}

func (r *Repository) FindByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	return r.find(ctx, func(entry accountSchema) bool {
		return entry.ID == string(id)
	})
}

func (r *Repository) find(ctx context.Context, match func(accountSchema) bool) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Account{}, err
	}

	for _, entry := range file.Accounts {
		if match(entry) {
			return r.fromSchema(ctx, entry)
		}
	}

	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(file.Accounts))
	for _, entry := range file.Accounts {
		account, err := r.fromSchema(ctx, entry)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (r *Repository) Save(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	index := -1
	for i, entry := range file.Accounts {
		if entry.ID == string(account.ID) {
			index = i
			continue
		}
		if account.Handle != "" && entry.Handle == account.Handle {
			return fmt.Errorf("%w: %q belongs to account %s", domain.ErrHandleTaken, account.Handle, entry.ID)
		}
	}

	encoded := toSchema(account)
	var restoreKey func() error
	if r.keys != nil && len(account.PublicKey) > 0 {
		ref := publicKeyRef(account.ID)
		restoreKey, err = r.snapshotKey(ctx, ref)
		if err != nil {
			return fmt.Errorf("snapshot public key for account %s: %w", account.ID, err)
		}
		if err := r.keys.Put(ctx, ref, string(account.PublicKey)); err != nil {
			return fmt.Errorf("store public key for account %s: %w", account.ID, err)
		}
		encoded.PublicKey = ""
		encoded.PublicKeyRef = ref
	}

	if index >= 0 {
		file.Accounts[index] = encoded
	} else {
		file.Accounts = append(file.Accounts, encoded)
	}

	if err := r.writeSchema(file); err != nil {
		if restoreKey != nil {
			if rollbackErr := restoreKey(); rollbackErr != nil {
				return fmt.Errorf("write accounts and rollback stored key: %w", errors.Join(err, rollbackErr))
			}
		}
		return err
	}

	return nil
}

// snapshotKey captures what is stored at ref and returns a func that puts it
// back, or removes ref when nothing was stored there.
func (r *Repository) snapshotKey(ctx context.Context, ref string) (func() error, error) {
	rollbackCtx := context.WithoutCancel(ctx)

	previous, err := r.keys.Get(ctx, ref)
	switch {
	case err == nil:
		return func() error { return r.keys.Put(rollbackCtx, ref, previous) }, nil
	case errors.Is(err, fs.ErrNotExist):
		return func() error { return r.keys.Delete(rollbackCtx, ref) }, nil
	default:
		return nil, err
	}
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.accountsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode accounts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeAccountsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve accounts path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.accountsPath), accountsDirMode); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.accountsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp accounts file: %w", err)
	}

	if err := tempFile.Chmod(accountsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp accounts file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}

	if err := os.Rename(tempName, r.accountsPath); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}

	cleanup = false
	return nil
}

func (r *Repository) fromSchema(ctx context.Context, entry accountSchema) (domain.Account, error) {
	publicKey := entry.PublicKey
	if publicKey == "" && entry.PublicKeyRef != "" {
		if r.keys == nil {
			return domain.Account{}, fmt.Errorf("account %s: %w", entry.ID, errNoKeyStore)
		}

		stored, err := r.keys.Get(ctx, entry.PublicKeyRef)
		if err != nil {
			return domain.Account{}, fmt.Errorf("load public key for account %s: %w", entry.ID, err)
		}
		publicKey = stored
	}

	createdAt, err := parseCreatedAt(entry.CreatedAt)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s: %w", entry.ID, err)
	}

	var keyBytes []byte
	if publicKey != "" {
		keyBytes = []byte(publicKey)
	}

	return domain.Account{
		ID:              domain.AccountID(entry.ID),
		Handle:          entry.Handle,
		PublicKey:       keyBytes,
		ProfileImageURL: entry.ProfileImage,
		ProfileURL:      entry.ProfileURL,
		CreatedAt:       createdAt,
	}, nil
}

func toSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:           string(account.ID),
		Handle:       account.Handle,
		PublicKey:    string(account.PublicKey),
		ProfileImage: account.ProfileImageURL,
		ProfileURL:   account.ProfileURL,
		CreatedAt:    formatTime(account.CreatedAt),
	}
}

func publicKeyRef(id domain.AccountID) string {
	return "accounts/" + string(id) + "/public.pem"
}

// parseCreatedAt accepts what go-toml decodes for created_at: a native
// offset or local datetime, a local date, or an RFC 3339 string. Local values
// are read as UTC.
func parseCreatedAt(raw any) (time.Time, error) {
	switch value := raw.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return value.UTC(), nil
	case toml.LocalDateTime:
		return value.AsTime(time.UTC), nil
	case toml.LocalDate:
		return value.AsTime(time.UTC), nil
	case string:
		if value == "" {
			return time.Time{}, nil
		}
		for _, layout := range createdAtLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidCreatedAt, value)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v", errInvalidCreatedAt, raw)
	}
}

func formatTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}

	return value.UTC().Format(time.RFC3339)
}
