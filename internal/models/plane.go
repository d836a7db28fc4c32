package models

// Plane represents an aircraft definition
type Plane struct {
	ID             int    `json:"id"`
	Model          string `json:"model"`
	ExecutiveSeats int    `json:"executiveSeats"`
	BusinessSeats  int    `json:"businessSeats"`
	EconomySeats   int    `json:"economySeats"`
	TotalSeats     int    `json:"totalSeats"`
}

// Recount recomputes TotalSeats from the three class counts.
func (p *Plane) Recount() {
	p.TotalSeats = p.ExecutiveSeats + p.BusinessSeats + p.EconomySeats
}

// SeatMap returns the per-class seat counts keyed by class.
func (p *Plane) SeatMap() map[SeatClass]int {
	return map[SeatClass]int{
		SeatClassExecutive: p.ExecutiveSeats,
		SeatClassBusiness:  p.BusinessSeats,
		SeatClassEconomy:   p.EconomySeats,
	}
}

// FleetType is the configuration tuple under which identical planes are counted.
type FleetType struct {
	Model          string `json:"model"`
	ExecutiveSeats int    `json:"executiveSeats"`
	BusinessSeats  int    `json:"businessSeats"`
	EconomySeats   int    `json:"economySeats"`
}

// FleetType returns the configuration key of the plane.
func (p *Plane) FleetType() FleetType {
	return FleetType{
		Model:          p.Model,
		ExecutiveSeats: p.ExecutiveSeats,
		BusinessSeats:  p.BusinessSeats,
		EconomySeats:   p.EconomySeats,
	}
}

// FleetTypeCount pairs a fleet type with the number of planes sharing it.
type FleetTypeCount struct {
	FleetType
	Count int `json:"count"`
}
