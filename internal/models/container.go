package models

// Container — контейнер заказа вместе с данными водителя.
type Container struct {
	ID                     int64
	OrderID                int64
	OrderNumber            string
	ContainerNumber        string
	WeightKg               float64
	DriverFirstName        string
	DriverLastName         string
	DriverCompany          string
	DriverPhone            string
	TruckNumber            string
	ArrivalDestinationDate string
	ClientReceivingDate    string
	LastSyncDate           string
}

// Delivered reports whether the container reached the client.
func (c Container) Delivered() bool {
	return c.ClientReceivingDate != ""
}

// DriverFullName collapses the name parts, skipping empty ones.
func (c Container) DriverFullName() string {
	switch {
	case c.DriverFirstName == "" && c.DriverLastName == "":
		return ""
	case c.DriverFirstName == "":
		return c.DriverLastName
	case c.DriverLastName == "":
		return c.DriverFirstName
	default:
		return c.DriverFirstName + " " + c.DriverLastName
	}
}
