package core

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// SettingsRecord is the stored form of PricingConfig (key "settings").
type SettingsRecord struct {
	BuyPrice  json.Number `json:"buyPrice" jsonschema:"type=number" jsonschema_description:"Unit cost paid to the supplier"`
	SellPrice json.Number `json:"sellPrice" jsonschema:"type=number" jsonschema_description:"Unit price charged to the customer"`
}

// SaleRecord is the stored form of Sale.
type SaleRecord struct {
	ID               string      `json:"id" jsonschema_description:"Unique sale identifier (UUID)"`
	Time             string      `json:"time" jsonschema_description:"Wall-clock time of the sale, display only"`
	BroughtContainer bool        `json:"broughtContainer" jsonschema_description:"Whether the customer supplied their own container"`
	Identification   string      `json:"identification,omitempty" jsonschema_description:"Optional free-text customer label"`
	Profit           json.Number `json:"profit" jsonschema:"type=number" jsonschema_description:"Sell price minus buy price at the time of sale"`
	Gross            json.Number `json:"gross" jsonschema:"type=number" jsonschema_description:"Sell price at the time of sale"`
}

// PersistedState documents both storage slots together.
type PersistedState struct {
	Settings SettingsRecord          `json:"settings" jsonschema_description:"Current pricing"`
	Sales    map[string][]SaleRecord `json:"sales" jsonschema_description:"Sales by calendar date (YYYY-MM-DD), newest first"`
}

// PersistenceSchema returns the JSON Schema of the stored state.
func PersistenceSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&PersistedState{})
	schema.Title = "refill-ledger persisted state"
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}

func encodeSettings(cfg PricingConfig) ([]byte, error) {
	raw, err := json.Marshal(SettingsRecord{
		BuyPrice:  numberOf(cfg.BuyPrice),
		SellPrice: numberOf(cfg.SellPrice),
	})
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return raw, nil
}

func decodeSettings(raw []byte) (PricingConfig, error) {
	var rec SettingsRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return PricingConfig{}, fmt.Errorf("decode settings: %w", err)
	}
	buy, err := decimalOf(rec.BuyPrice)
	if err != nil {
		return PricingConfig{}, fmt.Errorf("decode settings: buyPrice: %w", err)
	}
	sell, err := decimalOf(rec.SellPrice)
	if err != nil {
		return PricingConfig{}, fmt.Errorf("decode settings: sellPrice: %w", err)
	}
	return PricingConfig{BuyPrice: buy, SellPrice: sell}, nil
}

func encodeSales(buckets map[Date][]Sale) ([]byte, error) {
	out := make(map[string][]SaleRecord, len(buckets))
	for date, sales := range buckets {
		records := make([]SaleRecord, len(sales))
		for i, s := range sales {
			records[i] = SaleRecord{
				ID:               s.ID,
				Time:             s.Time,
				BroughtContainer: s.BroughtContainer,
				Identification:   s.Label,
				Profit:           numberOf(s.UnitProfit),
				Gross:            numberOf(s.UnitGross),
			}
		}
		out[string(date)] = records
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode sales: %w", err)
	}
	return raw, nil
}

// decodeSales drops empty buckets so the loaded ledger keeps the
// "bucket exists only while non-empty" rule even for hand-edited data.
func decodeSales(raw []byte) (map[Date][]Sale, error) {
	var in map[string][]SaleRecord
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}

	buckets := make(map[Date][]Sale, len(in))
	for key, records := range in {
		date, err := ParseDate(key)
		if err != nil {
			return nil, fmt.Errorf("decode sales: %w", err)
		}
		if len(records) == 0 {
			continue
		}
		sales := make([]Sale, len(records))
		for i, r := range records {
			profit, err := decimalOf(r.Profit)
			if err != nil {
				return nil, fmt.Errorf("decode sales: %s sale %s profit: %w", key, r.ID, err)
			}
			gross, err := decimalOf(r.Gross)
			if err != nil {
				return nil, fmt.Errorf("decode sales: %s sale %s gross: %w", key, r.ID, err)
			}
			sales[i] = Sale{
				ID:               r.ID,
				Time:             r.Time,
				BroughtContainer: r.BroughtContainer,
				Label:            r.Identification,
				UnitProfit:       profit,
				UnitGross:        gross,
			}
		}
		buckets[date] = sales
	}
	return buckets, nil
}

// numberOf writes d as an exact JSON number.
func numberOf(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// decimalOf reads a JSON number without going through float64. A missing
// or null value is zero.
func decimalOf(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
