package domain

type Port struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
	Radius  float64 `json:"radius"`
}

// Port alerts go to a fanout exchange; listeners consume the bound queue.
const (
	PortAlertExchange = "ship.events"
	PortAlertQueue    = "port_alerts"
)

type PortEventType string

const (
	PortArrival   PortEventType = "port_arrival"
	PortDeparture PortEventType = "port_departure"
)

type PortAlert struct {
	Port      string         `json:"port"`
	Country   string         `json:"country"`
	Event     PortEventType  `json:"event"`
	Position  PositionRecord `json:"position"`
	Timestamp int64          `json:"timestamp"`
}
