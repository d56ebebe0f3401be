package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type SeedBankAccount struct {
	BankName string `yaml:"bank_name"`
	Iban     string `yaml:"iban"`
	Balance  string `yaml:"balance"`
}

type SeedUser struct {
	Email       string           `yaml:"email"`
	FirstName   string           `yaml:"first_name"`
	LastName    string           `yaml:"last_name"`
	Password    string           `yaml:"password"`
	Balance     string           `yaml:"balance"`
	BankAccount *SeedBankAccount `yaml:"bank_account"`
}

type SeedConnection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// SeedConfig is the layout of the YAML seed file
type SeedConfig struct {
	Users       []SeedUser       `yaml:"users"`
	Connections []SeedConnection `yaml:"connections"`
}

func LoadSeedFile(seedFile string) (*SeedConfig, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", seedFile, err)
	}

	return &config, nil
}

func (c *SeedConfig) validate() error {
	emails := make(map[string]bool, len(c.Users))
	for i, user := range c.Users {
		if user.Email == "" {
			return fmt.Errorf("user at index %d missing email", i)
		}
		if user.Password == "" {
			return fmt.Errorf("user %s missing password", user.Email)
		}

		key := strings.ToLower(user.Email)
		if emails[key] {
			return fmt.Errorf("user %s listed twice", user.Email)
		}
		emails[key] = true

		if _, err := parseSeedAmount(user.Balance); err != nil {
			return fmt.Errorf("user %s: %w", user.Email, err)
		}
		if user.BankAccount != nil {
			if user.BankAccount.Iban == "" {
				return fmt.Errorf("bank account of %s missing iban", user.Email)
			}
			if _, err := parseSeedAmount(user.BankAccount.Balance); err != nil {
				return fmt.Errorf("bank account of %s: %w", user.Email, err)
			}
		}
	}

	for i, conn := range c.Connections {
		if conn.From == "" || conn.To == "" {
			return fmt.Errorf("connection at index %d needs both from and to", i)
		}
	}
	return nil
}

// parseSeedAmount treats an empty balance as zero
func parseSeedAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", raw, err)
	}
	return amount, nil
}
