package domain

type Address struct {
	ID           string `json:"id,omitempty" bson:"_id,omitempty"`
	Street       string `json:"street" bson:"street"`
	Number       string `json:"number" bson:"number"`
	Complement   string `json:"complement,omitempty" bson:"complement,omitempty"`
	Neighborhood string `json:"neighborhood" bson:"neighborhood"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	ZipCode      string `json:"zip_code" bson:"zip_code"`
	Reference    string `json:"reference,omitempty" bson:"reference,omitempty"`
	Label        string `json:"label,omitempty" bson:"label,omitempty"`
	IsDefault    bool   `json:"is_default" bson:"is_default"`
}
