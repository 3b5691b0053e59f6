package gomoku

import (
	"fmt"
	"math/rand"
	"time"
)

var callsignAdjectives = []string{
	"Brave", "Clever", "Swift", "Bold", "Mighty", "Mystic", "Silent", "Rapid",
	"Cunning", "Bright", "Golden", "Ancient", "Quick", "Patient", "Stoic",
}

var callsignAnimals = []string{
	"Octopus", "Tiger", "Phoenix", "Dragon", "Eagle", "Wolf", "Raven", "Falcon",
	"Cobra", "Lynx", "Owl", "Rhino", "Jaguar", "Cheetah", "Badger",
}

var callsignRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomCallsign returns a display name in the form AdjectiveAnimalN,
// where N is an unpadded number from 0 to 99,
// for front-ends that want to label a computer opponent or log line
// without exposing the raw State UUID. It carries no game semantics —
// calling it twice for the same State is expected to produce different
// names.
func RandomCallsign() string {
	adjective := callsignAdjectives[callsignRand.Intn(len(callsignAdjectives))]
	animal := callsignAnimals[callsignRand.Intn(len(callsignAnimals))]
	number := callsignRand.Intn(100)
	return fmt.Sprintf("%s%s%d", adjective, animal, number)
}
