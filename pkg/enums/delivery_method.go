package enums

import "fmt"

// DeliveryMethod is how the buyer receives the parts.
type DeliveryMethod string

const (
	DeliveryMethodShipping DeliveryMethod = "shipping"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodShipping,
	DeliveryMethodPickup,
}

func (d DeliveryMethod) String() string {
	return string(d)
}

// Label is the wording used in the order message. Anything but shipping reads
// as pickup.
func (d DeliveryMethod) Label() string {
	if d == DeliveryMethodShipping {
		return "Envio"
	}
	return "Retirada"
}

func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
