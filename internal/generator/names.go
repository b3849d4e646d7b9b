package generator

// Static per-country name pools for customer generation. Keyed by ISO
// country code; countries without a pool fall back to the "IE" lists.
var firstNamesByCountry = map[string][]string{
	"PT": {"Joao", "Maria", "Antonio", "Ana", "Francisco", "Beatriz", "Miguel", "Sofia", "Tiago", "Ines", "Pedro", "Carolina"},
	"ES": {"Alejandro", "Lucia", "Javier", "Carmen", "Pablo", "Sofia", "Diego", "Marta", "Alvaro", "Paula", "Sergio", "Elena"},
	"FR": {"Lucas", "Emma", "Hugo", "Lea", "Louis", "Chloe", "Jules", "Manon", "Arthur", "Camille", "Nathan", "Julie"},
	"DE": {"Maximilian", "Sophie", "Alexander", "Marie", "Paul", "Anna", "Leon", "Lena", "Felix", "Laura", "Lukas", "Julia"},
	"IT": {"Francesco", "Sofia", "Alessandro", "Giulia", "Lorenzo", "Aurora", "Matteo", "Alice", "Leonardo", "Martina", "Andrea", "Chiara"},
	"NL": {"Daan", "Emma", "Sem", "Julia", "Lucas", "Mila", "Finn", "Sophie", "Levi", "Zoe", "Luuk", "Tess"},
	"BE": {"Arthur", "Olivia", "Noah", "Emma", "Liam", "Louise", "Adam", "Alice", "Victor", "Juliette", "Gabriel", "Lina"},
	"GR": {"Georgios", "Maria", "Dimitrios", "Eleni", "Konstantinos", "Aikaterini", "Nikolaos", "Vasiliki", "Panagiotis", "Sophia", "Ioannis", "Despina"},
	"HR": {"Luka", "Mia", "Ivan", "Ana", "Marko", "Lucija", "Petar", "Ema", "Josip", "Sara", "Ante", "Petra"},
	"IE": {"Jack", "Emily", "James", "Grace", "Conor", "Sophie", "Daniel", "Amelia", "Sean", "Ella", "Liam", "Aoife"},
}

var lastNamesByCountry = map[string][]string{
	"PT": {"Silva", "Santos", "Ferreira", "Pereira", "Oliveira", "Costa", "Rodrigues", "Martins", "Sousa", "Fernandes"},
	"ES": {"Garcia", "Martinez", "Lopez", "Sanchez", "Gonzalez", "Rodriguez", "Fernandez", "Perez", "Gomez", "Ruiz"},
	"FR": {"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand", "Leroy", "Moreau"},
	"DE": {"Muller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker", "Schulz", "Hoffmann"},
	"IT": {"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano", "Colombo", "Ricci", "Marino", "Greco"},
	"NL": {"de Jong", "Jansen", "de Vries", "van den Berg", "van Dijk", "Bakker", "Janssen", "Visser", "Smit", "Meijer"},
	"BE": {"Peeters", "Janssens", "Maes", "Jacobs", "Mertens", "Willems", "Claes", "Goossens", "Wouters", "De Smet"},
	"GR": {"Papadopoulos", "Papadakis", "Karagiannis", "Vlachos", "Antoniou", "Makris", "Nikolaou", "Georgiou", "Dimitriou", "Alexiou"},
	"HR": {"Horvat", "Kovacevic", "Babic", "Maric", "Juric", "Novak", "Kovacic", "Vukovic", "Knezevic", "Petrovic"},
	"IE": {"Murphy", "Kelly", "O'Sullivan", "Walsh", "Smith", "O'Brien", "Byrne", "Ryan", "O'Connor", "Doyle"},
}

func firstNames(countryCode string) []string {
	if names, ok := firstNamesByCountry[countryCode]; ok {
		return names
	}
	return firstNamesByCountry["IE"]
}

func lastNames(countryCode string) []string {
	if names, ok := lastNamesByCountry[countryCode]; ok {
		return names
	}
	return lastNamesByCountry["IE"]
}
