package catalog

import "github.com/partyhost/server/internal/models"

// quizCategories seeds the charades-style categories: animals, movies,
// jobs, sports, music, proverbs, food, advanced.
var quizCategories = []Category{
	{CategoryID: "quiz-animals", Game: models.GameQuiz, Name: "Animals", Words: []string{
		"Elephant", "Giraffe", "Penguin", "Kangaroo", "Octopus", "Cheetah", "Dolphin", "Flamingo",
		"Gorilla", "Hedgehog", "Koala", "Otter", "Peacock", "Raccoon", "Sloth", "Toucan",
		"Walrus", "Zebra", "Armadillo", "Chameleon", "Platypus", "Meerkat", "Jellyfish", "Porcupine",
	}},
	{CategoryID: "quiz-movies", Game: models.GameQuiz, Name: "Movies", Words: []string{
		"Titanic", "Inception", "Jaws", "Frozen", "Gladiator", "The Matrix", "Up", "Coco",
		"Jurassic Park", "The Godfather", "Avatar", "Shrek", "Rocky", "Ghostbusters", "Moana", "Ratatouille",
		"The Lion King", "Back to the Future", "E.T.", "Toy Story", "Finding Nemo", "Interstellar", "Casablanca", "Psycho",
	}},
	{CategoryID: "quiz-jobs", Game: models.GameQuiz, Name: "Jobs", Words: []string{
		"Firefighter", "Surgeon", "Pilot", "Electrician", "Chef", "Plumber", "Teacher", "Librarian",
		"Astronaut", "Dentist", "Mechanic", "Florist", "Tailor", "Lifeguard", "Beekeeper", "Barista",
		"Carpenter", "Journalist", "Zookeeper", "Referee", "Locksmith", "Butcher", "Photographer", "Sculptor",
	}},
	{CategoryID: "quiz-sports", Game: models.GameQuiz, Name: "Sports", Words: []string{
		"Badminton", "Archery", "Curling", "Fencing", "Rowing", "Surfing", "Wrestling", "Bowling",
		"Snowboarding", "Table Tennis", "Rugby", "Golf", "Judo", "Skateboarding", "Volleyball", "Sumo",
		"Cricket", "Sailing", "Gymnastics", "Handball", "Darts", "Squash", "Lacrosse", "Biathlon",
	}},
	{CategoryID: "quiz-music", Game: models.GameQuiz, Name: "Music", Words: []string{
		"Accordion", "Bagpipes", "Tambourine", "Xylophone", "Harmonica", "Ukulele", "Trombone", "Cello",
		"Banjo", "Kazoo", "Triangle", "Maracas", "Bongo", "Saxophone", "Harp", "Castanets",
		"Didgeridoo", "Sitar", "Glockenspiel", "Theremin", "Clarinet", "Tuba", "Mandolin", "Vibraphone",
	}},
	{CategoryID: "quiz-proverbs", Game: models.GameQuiz, Name: "Proverbs", Words: []string{
		"Early bird catches the worm", "Don't judge a book by its cover", "Better late than never",
		"Actions speak louder than words", "The grass is always greener", "When in Rome",
		"Practice makes perfect", "Out of sight out of mind", "A penny saved is a penny earned",
		"Two wrongs don't make a right", "Every cloud has a silver lining", "Curiosity killed the cat",
	}},
	{CategoryID: "quiz-food", Game: models.GameQuiz, Name: "Food", Words: []string{
		"Dumpling", "Ramen", "Tacos", "Sushi", "Paella", "Croissant", "Pretzel", "Falafel",
		"Lasagna", "Kimchi", "Pancake", "Waffle", "Hummus", "Quiche", "Ceviche", "Baklava",
		"Risotto", "Churro", "Pho", "Empanada", "Samosa", "Gnocchi", "Burrito", "Tiramisu",
	}},
	{CategoryID: "quiz-advanced", Game: models.GameQuiz, Name: "Advanced", Words: []string{
		"Bureaucracy", "Photosynthesis", "Hibernation", "Metamorphosis", "Camouflage", "Procrastination",
		"Claustrophobia", "Nostalgia", "Paradox", "Symbiosis", "Equilibrium", "Renaissance",
		"Migration", "Constellation", "Diplomacy", "Gravity", "Inflation", "Algorithm",
		"Ecosystem", "Monarchy", "Archipelago", "Inertia", "Quarantine", "Pandemic",
	}},
}
