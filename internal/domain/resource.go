package domain

import "strings"

const (
	ResourceUser        = "user"
	ResourceWarehouse   = "warehouse"
	ResourceGoods       = "goods"
	ResourceShelf       = "shelf"
	ResourceDevice      = "device"
	ResourceEnvironment = "environment"
)

// Record is one schemaless row of a resource listing.
type Record map[string]any

// Resource describes the envelope-style CRUD endpoints of one server resource.
type Resource struct {
	Name       string
	Title      string
	ListPath   string
	AddPath    string
	UpdatePath string
	DeletePath string
	SearchPath string
	// IDParam is the query parameter carrying the id on delete.
	IDParam string
}

func newResource(name, title, singular, plural, searchSuffix string) Resource {
	base := "/" + name
	return Resource{
		Name:       name,
		Title:      title,
		ListPath:   base + "/getAll" + plural,
		AddPath:    base + "/add" + singular,
		UpdatePath: base + "/update" + singular,
		DeletePath: base + "/del" + singular,
		SearchPath: base + "/getAll" + searchSuffix + "ByCon",
		IDParam:    name + "Id",
	}
}

var resources = []Resource{
	newResource(ResourceUser, "Users", "User", "Users", "User"),
	newResource(ResourceWarehouse, "Warehouses", "Warehouse", "Warehouses", "Warehouses"),
	newResource(ResourceGoods, "Goods", "Goods", "Goods", "Goods"),
	newResource(ResourceShelf, "Shelves", "Shelf", "Shelves", "Shelves"),
	newResource(ResourceDevice, "Devices", "Device", "Devices", "Devices"),
}

// Resources returns the envelope-style catalogue. The environment API is separate.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

func LookupResource(name string) (Resource, bool) {
	wanted := strings.ToLower(strings.TrimSpace(name))
	for _, resource := range resources {
		if resource.Name == wanted {
			return resource, true
		}
	}
	return Resource{}, false
}

// EnvironmentReading is identified by sensor id plus timestamp.
type EnvironmentReading map[string]any

func (r EnvironmentReading) SensorID() string {
	return Profile(r).String("sensorId")
}

func (r EnvironmentReading) Timestamp() string {
	return Profile(r).String("timestamp")
}
