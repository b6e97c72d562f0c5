package catalog

// Sample is the demo catalog served by the memory driver and written by
// `catalog init --seed`.
func Sample() []Entry {
	return []Entry{
		{ID: 1, Name: "KIT EPOXI VERDE", Price: 120, Priced: true},
		{ID: 2, Name: "KIT EPOXI GRIS", Price: 120, Priced: true},
		{ID: 3, Name: "KIT EPOXI PRIMER", Price: 95, Priced: true},
		{ID: 4, Name: "KIT POLITOP", Price: 140, Priced: true},
		{ID: 5, Name: "POLITOP BLANCO", Price: 85.5, Priced: true},
		{ID: 6, Name: "IMPRIMACIÓN GENÉRICA", Price: 60, Priced: true},
		{ID: 7, Name: "ENEKRIL ROJO", Price: 70, Priced: true},
		{ID: 8, Name: "DISOLVENTE 7043", Price: 12.4, Priced: true},
		{ID: 9, Name: "RODILLOS", Price: 0, Priced: true},
	}
}
