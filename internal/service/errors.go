package service

import "errors"

var (
	// ErrInvalidAmount is returned when a donation amount is below $1.
	ErrInvalidAmount = errors.New("amount must be at least 1")

	// ErrInvalidEmail is returned when an email address is missing or malformed.
	ErrInvalidEmail = errors.New("valid email is required")

	// ErrInvalidName is returned when a required name field is empty.
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidPaymentMethod is returned when a payment method reference is missing.
	ErrInvalidPaymentMethod = errors.New("payment method is required")

	// ErrInvalidID is returned when an entity ID is empty.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidAnimal is returned when required animal fields are missing.
	ErrInvalidAnimal = errors.New("animal name and species are required")

	// ErrAnimalAlreadyAdopted is returned when adopting an already adopted animal.
	ErrAnimalAlreadyAdopted = errors.New("animal already adopted")

	// ErrInvalidStory is returned when required story fields are missing.
	ErrInvalidStory = errors.New("story title and content are required")

	// ErrInvalidVolunteer is returned when required volunteer fields are missing.
	ErrInvalidVolunteer = errors.New("volunteer name and email are required")

	// ErrInvalidStatus is returned when a status value is not recognized.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrAlreadySubscribed is returned when an active subscriber resubscribes.
	ErrAlreadySubscribed = errors.New("email already subscribed")

	// ErrNotSubscribed is returned when unsubscribing an unknown email.
	ErrNotSubscribed = errors.New("email is not subscribed")

	// ErrInvalidSponsor is returned when required sponsor fields are missing.
	ErrInvalidSponsor = errors.New("sponsor name is required")

	// errMalformedInvoiceEvent is returned when an invoice-shaped event
	// payload cannot be parsed at all.
	errMalformedInvoiceEvent = errors.New("malformed invoice event payload")
)
