package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RenderSettings holds the rendering texts that decorate generated
// documents. They live in render.yml so wording can be adjusted without
// a rebuild.
type RenderSettings struct {
	TaxNote        string   `mapstructure:"taxNote"`
	PaymentTerms   []string `mapstructure:"paymentTerms"`
	SignatureLines []string `mapstructure:"signatureLines"`
	ValidityFooter string   `mapstructure:"validityFooter"`
	LogoFile       string   `mapstructure:"logoFile"`

	// Tint is the RGB accent color of the title and table header.
	Tint []int `mapstructure:"tint"`
}

// DefaultRenderSettings reproduces the historical wording of the
// rendered documents.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		TaxNote: "TVA non applicable, art. 293 B du CGI",
		PaymentTerms: []string{
			"Paiement comptant à la réception de la facture. Aucun escompte en cas de paiement anticipé.",
			"En cas de retard, pénalités calculées au taux annuel de 10 %.",
		},
		SignatureLines: []string{
			"Je reconnais avoir pris connaissance de ce devis et des conditions de vente inscrites au dos, je les accepte sans réserve.",
			"Signature précédée de la mention \"Bon pour accord\" :",
		},
		ValidityFooter: "Ce devis est valable 30 jours calendaires",
		LogoFile:       "logo.png",
		Tint:           []int{47, 79, 79},
	}
}

// RenderSettingsHolder exposes the current settings and swaps them
// atomically when render.yml changes on disk.
type RenderSettingsHolder struct {
	current atomic.Value // holds RenderSettings
}

func NewRenderSettingsHolder(cfg Config) (*RenderSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("render")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.DataDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("FACTURIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &RenderSettingsHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultRenderSettings())
		return holder, nil
	}

	settings, err := decodeRenderSettings(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(settings)

	v.OnConfigChange(func(_ fsnotify.Event) {
		reloaded, err := decodeRenderSettings(v)
		if err != nil {
			log.Printf("render settings reload failed: %v", err)
			return
		}
		holder.current.Store(reloaded)
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the active settings snapshot.
func (h *RenderSettingsHolder) Current() RenderSettings {
	if v, ok := h.current.Load().(RenderSettings); ok {
		return v
	}
	return DefaultRenderSettings()
}

func decodeRenderSettings(v *viper.Viper) (RenderSettings, error) {
	settings := DefaultRenderSettings()
	if err := v.UnmarshalKey("render", &settings); err != nil {
		return RenderSettings{}, err
	}
	return settings, nil
}
