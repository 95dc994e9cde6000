package seed

import "github.com/okian/wanderlist/internal/domain/destination"

// Samples returns the default sample destinations.
func Samples() []destination.Fields {
	return []destination.Fields{
		sample("Paris", "France", "City of Light and love", destination.NewDate(2024, 6, 15)),
		sample("Tokyo", "Japan", "Vibrant metropolis with rich culture", destination.NewDate(2024, 7, 20)),
		sample("New York", "USA", "The Big Apple with iconic landmarks", destination.NewDate(2024, 8, 10)),
		sample("Sydney", "Australia", "Harbor city with Opera House", destination.NewDate(2024, 9, 5)),
	}
}

func sample(name, location, description string, date destination.Date) destination.Fields {
	return destination.Fields{Name: name, Location: location, Description: description, Date: &date}
}
