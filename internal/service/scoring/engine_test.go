package scoring

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func idealSample() domain.WeatherSample {
	return domain.WeatherSample{
		CloudCoverPercent:               50,
		RelativeHumidityPercent:         30,
		VisibilityMeters:                24000,
		WindSpeed:                       5,
		PrecipitationProbabilityPercent: 0,
		PressureHPa:                     1025,
	}
}

func mustEngine(t *testing.T, p Policy) *Engine {
	t.Helper()
	e, err := NewEngine(p)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestEngine_Score(t *testing.T) {
	tests := []struct {
		name       string
		policy     Policy
		weather    domain.WeatherSample
		airQuality *domain.AirQualitySample
		want       float64
		wantFourth float64
		wantFifth  float64
	}{
		{
			name:       "ideal conditions with default policy",
			policy:     DefaultPolicy(),
			weather:    idealSample(),
			airQuality: &domain.AirQualitySample{PM25: 10},
			want:       100,
			wantFourth: 20,
			wantFifth:  20,
		},
		{
			name:   "wind and precipitation policy",
			policy: Policy{Fourth: domain.ComponentWind, Fifth: domain.ComponentPrecipitation, Aerosol: AerosolPiecewise, Rounding: RoundingFractional},
			weather: func() domain.WeatherSample {
				s := idealSample()
				s.WindSpeed = 14
				s.PrecipitationProbabilityPercent = 12
				return s
			}(),
			want:       89,
			wantFourth: 16,
			wantFifth:  13,
		},
		{
			name:       "aerosol missing scores pessimistically",
			policy:     DefaultPolicy(),
			weather:    idealSample(),
			airQuality: nil,
			want:       80,
			wantFourth: 20,
			wantFifth:  0,
		},
		{
			name:   "missing fields count as zero",
			policy: DefaultPolicy(),
			weather: func() domain.WeatherSample {
				s := idealSample()
				s.VisibilityMeters = domain.Missing
				s.PressureHPa = domain.Missing
				return s
			}(),
			airQuality: &domain.AirQualitySample{PM25: 45},
			want:       55,
			wantFourth: 0,
			wantFifth:  15,
		},
		{
			name:       "banded aerosol policy",
			policy:     Policy{Fourth: domain.ComponentPressure, Fifth: domain.ComponentAerosol, Aerosol: AerosolBanded, Rounding: RoundingFractional},
			weather:    idealSample(),
			airQuality: &domain.AirQualitySample{PM25: 5},
			want:       93,
			wantFourth: 20,
			wantFifth:  13,
		},
		{
			name:   "nearest rounding",
			policy: Policy{Fourth: domain.ComponentPressure, Fifth: domain.ComponentAerosol, Aerosol: AerosolPiecewise, Rounding: RoundingNearest},
			weather: func() domain.WeatherSample {
				s := idealSample()
				s.VisibilityMeters = 12700
				return s
			}(),
			airQuality: &domain.AirQualitySample{PM25: 10},
			want:       93,
			wantFourth: 20,
			wantFifth:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mustEngine(t, tt.policy)
			w := tt.weather

			got, err := engine.Score(&w, tt.airQuality)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if got.Value != tt.want {
				t.Errorf("Score().Value = %v, want %v", got.Value, tt.want)
			}
			if got.Components.Fourth != tt.wantFourth {
				t.Errorf("Fourth = %v, want %v", got.Components.Fourth, tt.wantFourth)
			}
			if got.Components.Fifth != tt.wantFifth {
				t.Errorf("Fifth = %v, want %v", got.Components.Fifth, tt.wantFifth)
			}
			if got.Components.FourthKind != tt.policy.Fourth || got.Components.FifthKind != tt.policy.Fifth {
				t.Errorf("component kinds = %v/%v, want %v/%v",
					got.Components.FourthKind, got.Components.FifthKind, tt.policy.Fourth, tt.policy.Fifth)
			}
		})
	}
}

func TestEngine_Score_AbsentSample(t *testing.T) {
	engine := mustEngine(t, DefaultPolicy())

	_, err := engine.Score(nil, &domain.AirQualitySample{PM25: 10})
	if !errors.Is(err, domain.ErrProviderDataIncomplete) {
		t.Fatalf("Score(nil) error = %v, want ErrProviderDataIncomplete", err)
	}
}

func TestEngine_Score_BoundedAndDeterministic(t *testing.T) {
	engine := mustEngine(t, DefaultPolicy())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		w := domain.WeatherSample{
			CloudCoverPercent:               rng.Float64()*200 - 50,
			RelativeHumidityPercent:         rng.Float64() * 120,
			VisibilityMeters:                rng.Float64() * 80000,
			WindSpeed:                       rng.Float64() * 60,
			PrecipitationProbabilityPercent: rng.Float64() * 100,
			PressureHPa:                     950 + rng.Float64()*120,
		}
		aq := &domain.AirQualitySample{PM25: rng.Float64() * 200}

		first, err := engine.Score(&w, aq)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if first.Value < 0 || first.Value > 100 {
			t.Fatalf("score %v out of [0,100] for %+v", first.Value, w)
		}

		second, _ := engine.Score(&w, aq)
		if first != second {
			t.Fatalf("score not deterministic: %+v vs %+v", first, second)
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("DefaultPolicy().Validate() = %v", err)
	}

	invalid := []Policy{
		{Fourth: domain.ComponentAerosol, Fifth: domain.ComponentAerosol, Aerosol: AerosolPiecewise, Rounding: RoundingNearest},
		{Fourth: domain.ComponentWind, Fifth: domain.ComponentWind, Aerosol: AerosolPiecewise, Rounding: RoundingNearest},
		{Fourth: domain.ComponentWind, Fifth: domain.ComponentAerosol, Aerosol: "linear", Rounding: RoundingNearest},
		{Fourth: domain.ComponentWind, Fifth: domain.ComponentAerosol, Aerosol: AerosolBanded, Rounding: "floor"},
	}
	for _, p := range invalid {
		if _, err := NewEngine(p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("NewEngine(%+v) error = %v, want ErrInvalidInput", p, err)
		}
	}
}
