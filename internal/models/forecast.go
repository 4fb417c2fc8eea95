package models

// DayForecast merges the biowaste and CO2 predictions for one input
type DayForecast struct {
	WasteFromCustomer float64 `json:"waste_from_customer"`
	WasteFromKitchen  float64 `json:"waste_from_kitchen"`
	WastePerCustomer  float64 `json:"waste_per_customer"`
	// Receipts is a model estimate of the receipt count and may be fractional
	Receipts          float64 `json:"receipts"`
	CO2               float64 `json:"co2"`
}

// BiowastePrediction is the payload of the biowaste endpoint
type BiowastePrediction struct {
	WasteCustomer    float64 `json:"predicted_waste_customer"`
	WasteKitchen     float64 `json:"predicted_waste_kitchen"`
	WastePerCustomer float64 `json:"predicted_waste_per_customer"`
	NumReceipts      float64 `json:"predicted_num_receipts"`
}

// CO2Prediction is the payload of the CO2 endpoint
type CO2Prediction struct {
	CO2 float64 `json:"predicted_co2"`
}

// NewDayForecast combines both payloads field by field
func NewDayForecast(waste BiowastePrediction, co2 CO2Prediction) *DayForecast {
	return &DayForecast{
		WasteFromCustomer: waste.WasteCustomer,
		WasteFromKitchen:  waste.WasteKitchen,
		WastePerCustomer:  waste.WastePerCustomer,
		Receipts:          waste.NumReceipts,
		CO2:               co2.CO2,
	}
}
