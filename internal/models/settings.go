package models

import "sync"

// Store is the key-value settings backend. fyne.Preferences satisfies it.
type Store interface {
	String(key string) string
	SetString(key string, value string)
	Bool(key string) bool
	SetBool(key string, value bool)
}

const (
	KeyBusinessName     = "business_name"
	KeyBusinessAddress  = "business_address"
	KeyBusinessCity     = "business_city"
	KeyBusinessProvince = "business_province"
	KeyBusinessPostCode = "business_post_code"
	KeyBusinessCountry  = "business_country"
	KeyBusinessPhone    = "business_phone"
	KeyBusinessEmail    = "business_email"
	KeyBusinessWebsite  = "business_website"
	KeyBusinessRegNum   = "business_reg_num"
	KeyBusinessLogo     = "business_logo"

	keyBusinessSaved = "business_saved"
)

// SettingsRepository persists the business details
type SettingsRepository struct {
	store Store
}

func NewSettingsRepository(store Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// HasBusiness reports whether business details were ever saved
func (r *SettingsRepository) HasBusiness() bool {
	return r.store.Bool(keyBusinessSaved)
}

func (r *SettingsRepository) LoadBusiness() Business {
	s := r.store
	return Business{
		Name:      s.String(KeyBusinessName),
		Address:   s.String(KeyBusinessAddress),
		City:      s.String(KeyBusinessCity),
		Province:  s.String(KeyBusinessProvince),
		PostCode:  s.String(KeyBusinessPostCode),
		Country:   s.String(KeyBusinessCountry),
		Phone:     s.String(KeyBusinessPhone),
		Email:     s.String(KeyBusinessEmail),
		Website:   s.String(KeyBusinessWebsite),
		RegNumber: s.String(KeyBusinessRegNum),
		LogoPath:  s.String(KeyBusinessLogo),
	}
}

func (r *SettingsRepository) SaveBusiness(b Business) {
	s := r.store
	s.SetString(KeyBusinessName, b.Name)
	s.SetString(KeyBusinessAddress, b.Address)
	s.SetString(KeyBusinessCity, b.City)
	s.SetString(KeyBusinessProvince, b.Province)
	s.SetString(KeyBusinessPostCode, b.PostCode)
	s.SetString(KeyBusinessCountry, b.Country)
	s.SetString(KeyBusinessPhone, b.Phone)
	s.SetString(KeyBusinessEmail, b.Email)
	s.SetString(KeyBusinessWebsite, b.Website)
	s.SetString(KeyBusinessRegNum, b.RegNumber)
	s.SetString(KeyBusinessLogo, b.LogoPath)
	s.SetBool(keyBusinessSaved, true)
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	strings map[string]string
	bools   map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strings: make(map[string]string),
		bools:   make(map[string]bool),
	}
}

func (s *MemoryStore) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strings[key]
}

func (s *MemoryStore) SetString(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strings[key] = value
}

func (s *MemoryStore) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bools[key]
}

func (s *MemoryStore) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bools[key] = value
}
