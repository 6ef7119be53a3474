package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AnalyticsParams tunes the derived campaign metrics. The scoring model
// is a fixed linear combination; the weights live here so deployments
// can adjust them without a rebuild.
type AnalyticsParams struct {
	ROIPerClick float64 `mapstructure:"roiPerClick"`
	OpenWeight  float64 `mapstructure:"openWeight"`
	ClickWeight float64 `mapstructure:"clickWeight"`

	Simulation SimulationParams `mapstructure:"simulation"`
	Geography  GeographyParams  `mapstructure:"geography"`
	Devices    DeviceParams     `mapstructure:"devices"`
}

// SimulationParams bounds the uniform draws used when synthesizing
// engagement for a freshly launched campaign.
type SimulationParams struct {
	OpenRateMin  float64 `mapstructure:"openRateMin"`
	OpenRateMax  float64 `mapstructure:"openRateMax"`
	ClickRateMin float64 `mapstructure:"clickRateMin"`
	ClickRateMax float64 `mapstructure:"clickRateMax"`
}

// GeographyParams fixes the synthetic per-city send ratios used when a
// campaign does not pin a city. The remainder key absorbs what the
// named ratios leave over.
type GeographyParams struct {
	CityRatios   map[string]float64 `mapstructure:"cityRatios"`
	RemainderKey string             `mapstructure:"remainderKey"`
}

// DeviceParams bounds the synthetic device split. Desktop takes the
// remainder after mobile and tablet.
type DeviceParams struct {
	MobileMin float64 `mapstructure:"mobileMin"`
	MobileMax float64 `mapstructure:"mobileMax"`
	TabletMin float64 `mapstructure:"tabletMin"`
	TabletMax float64 `mapstructure:"tabletMax"`
}

func DefaultAnalyticsParams() AnalyticsParams {
	return AnalyticsParams{
		ROIPerClick: 15.0,
		OpenWeight:  0.6,
		ClickWeight: 4.0,
		Simulation: SimulationParams{
			OpenRateMin:  0.25,
			OpenRateMax:  0.65,
			ClickRateMin: 0.05,
			ClickRateMax: 0.20,
		},
		Geography: GeographyParams{
			CityRatios: map[string]float64{
				"Istanbul": 0.40,
				"Ankara":   0.25,
				"Izmir":    0.15,
			},
			RemainderKey: "Others",
		},
		Devices: DeviceParams{
			MobileMin: 50,
			MobileMax: 65,
			TabletMin: 5,
			TabletMax: 10,
		},
	}
}

type AnalyticsParamsHolder struct {
	current atomic.Value // holds AnalyticsParams
}

func NewAnalyticsParamsHolder() (*AnalyticsParamsHolder, error) {
	v := viper.New()

	v.SetConfigName("analytics")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/kampa")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KAMPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAnalyticsParams()
	v.SetDefault("analytics.roiPerClick", defaults.ROIPerClick)
	v.SetDefault("analytics.openWeight", defaults.OpenWeight)
	v.SetDefault("analytics.clickWeight", defaults.ClickWeight)
	v.SetDefault("analytics.simulation", defaults.Simulation)
	v.SetDefault("analytics.geography", defaults.Geography)
	v.SetDefault("analytics.devices", defaults.Devices)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var params AnalyticsParams
	if err := v.UnmarshalKey("analytics", &params); err != nil {
		return nil, err
	}
	if err := validateAnalyticsParams(params); err != nil {
		return nil, err
	}

	holder := &AnalyticsParamsHolder{}
	holder.current.Store(params)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AnalyticsParams
		if err := v.UnmarshalKey("analytics", &updated); err != nil {
			log.Printf("[analytics-config] reload failed: %v", err)
			return
		}
		if err := validateAnalyticsParams(updated); err != nil {
			log.Printf("[analytics-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[analytics-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticAnalyticsParams wraps fixed params, bypassing file watching.
// Tests and one-shot tools use this.
func NewStaticAnalyticsParams(params AnalyticsParams) *AnalyticsParamsHolder {
	holder := &AnalyticsParamsHolder{}
	holder.current.Store(params)
	return holder
}

func (h *AnalyticsParamsHolder) Get() AnalyticsParams {
	if v := h.current.Load(); v != nil {
		return v.(AnalyticsParams)
	}
	return DefaultAnalyticsParams()
}

func validateAnalyticsParams(params AnalyticsParams) error {
	if params.ROIPerClick < 0 {
		return errors.New("analytics.roiPerClick cannot be negative")
	}
	if params.OpenWeight < 0 || params.ClickWeight < 0 {
		return errors.New("analytics score weights cannot be negative")
	}
	if err := validateRate("simulation.openRate", params.Simulation.OpenRateMin, params.Simulation.OpenRateMax); err != nil {
		return err
	}
	if err := validateRate("simulation.clickRate", params.Simulation.ClickRateMin, params.Simulation.ClickRateMax); err != nil {
		return err
	}
	if len(params.Geography.CityRatios) == 0 {
		return errors.New("analytics.geography.cityRatios cannot be empty")
	}
	var ratioSum float64
	for city, ratio := range params.Geography.CityRatios {
		if ratio <= 0 || ratio > 1 {
			return fmt.Errorf("analytics.geography ratio for %s out of range", city)
		}
		ratioSum += ratio
	}
	if ratioSum > 1 {
		return errors.New("analytics.geography ratios exceed 1.0")
	}
	if strings.TrimSpace(params.Geography.RemainderKey) == "" {
		return errors.New("analytics.geography.remainderKey cannot be empty")
	}
	if params.Devices.MobileMin < 0 || params.Devices.MobileMax < params.Devices.MobileMin {
		return errors.New("analytics.devices mobile bounds invalid")
	}
	if params.Devices.TabletMin < 0 || params.Devices.TabletMax < params.Devices.TabletMin {
		return errors.New("analytics.devices tablet bounds invalid")
	}
	if params.Devices.MobileMax+params.Devices.TabletMax > 100 {
		return errors.New("analytics.devices bounds leave no room for desktop")
	}
	return nil
}

func validateRate(name string, min, max float64) error {
	if min < 0 || max > 1 || max < min {
		return fmt.Errorf("analytics.%s bounds invalid", name)
	}
	return nil
}
