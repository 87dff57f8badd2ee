package vocab

// DefaultCorpus returns the built-in word lists keyed by difficulty and category.
func DefaultCorpus() Corpus {
	return Corpus{
		"easy": {
			"greetings": {
				"Hello", "Goodbye", "Good morning", "Good night", "Welcome", "See you",
				"How are you?", "Nice to meet you", "Thank you", "Please",
			},
			"basic_words": {
				"Yes", "No", "Maybe", "Today", "Tomorrow", "Yesterday", "Now", "Here", "There",
				"Where", "When", "Why", "How",
			},
			"numbers": {
				"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
				"Hundred", "Thousand",
			},
			"colors": {
				"Red", "Blue", "Green", "Yellow", "Black", "White", "Orange", "Purple", "Pink",
				"Brown", "Gray",
			},
			"family": {
				"Mother", "Father", "Sister", "Brother", "Child", "Baby", "Grandmother",
				"Grandfather", "Aunt", "Uncle", "Cousin",
			},
			"animals": {
				"Cat", "Dog", "Bird", "Fish", "Horse", "Cow", "Pig", "Chicken", "Duck",
				"Mouse", "Rabbit", "Sheep",
			},
			"food": {
				"Water", "Bread", "Milk", "Egg", "Cheese", "Rice", "Apple", "Banana", "Orange",
				"Meat", "Fish", "Chicken",
			},
			"body": {
				"Head", "Hand", "Foot", "Eye", "Ear", "Nose", "Mouth", "Hair", "Arm", "Leg",
				"Face", "Body",
			},
			"nature": {
				"Sun", "Moon", "Star", "Sky", "Cloud", "Rain", "Snow", "Tree", "Flower",
				"Mountain", "River", "Sea",
			},
		},
		"medium": {
			"emotions": {
				"Happy", "Sad", "Angry", "Excited", "Tired", "Hungry", "Thirsty", "Scared",
				"Worried", "Surprised", "Bored", "Proud",
			},
			"actions": {
				"Eat", "Drink", "Sleep", "Walk", "Run", "Jump", "Sit", "Stand", "Read",
				"Write", "Speak", "Listen", "Think",
			},
			"places": {
				"Home", "School", "Hospital", "Restaurant", "Hotel", "Airport", "Station",
				"Bank", "Post office", "Library", "Museum", "Park",
			},
			"time": {
				"Morning", "Afternoon", "Evening", "Night", "Week", "Month", "Year", "Hour",
				"Minute", "Second", "Weekend", "Holiday",
			},
			"weather": {
				"Hot", "Cold", "Warm", "Cool", "Sunny", "Cloudy", "Rainy", "Snowy", "Windy",
				"Foggy", "Storm", "Thunder",
			},
			"clothes": {
				"Shirt", "Pants", "Dress", "Skirt", "Shoes", "Socks", "Hat", "Coat", "Jacket",
				"Sweater", "Gloves", "Scarf",
			},
			"professions": {
				"Teacher", "Doctor", "Engineer", "Artist", "Driver", "Cook", "Nurse",
				"Police officer", "Firefighter", "Pilot", "Farmer",
			},
			"transport": {
				"Car", "Bus", "Train", "Plane", "Bicycle", "Motorcycle", "Boat", "Ship",
				"Taxi", "Subway", "Truck",
			},
			"adjectives": {
				"Big", "Small", "Tall", "Short", "Long", "Fast", "Slow", "Beautiful", "Ugly",
				"Good", "Bad", "New", "Old", "Young",
			},
			"phrases": {
				"I love you", "I'm sorry", "Excuse me", "You're welcome", "I don't know",
				"I understand", "Help me", "See you later",
			},
		},
		"hard": {
			"advanced_verbs": {
				"Accomplish", "Achieve", "Analyze", "Appreciate", "Argue", "Assume", "Attempt",
				"Avoid", "Believe", "Celebrate", "Compare", "Complain", "Conclude", "Confirm",
				"Consider",
			},
			"abstract_nouns": {
				"Freedom", "Justice", "Knowledge", "Wisdom", "Truth", "Beauty", "Courage",
				"Patience", "Honesty", "Creativity", "Democracy", "Philosophy", "Psychology",
				"Education",
			},
			"complex_adjectives": {
				"Ambitious", "Anxious", "Brilliant", "Careful", "Curious", "Determined",
				"Efficient", "Enthusiastic", "Generous", "Imaginative", "Independent",
				"Responsible", "Sensitive",
			},
			"idioms": {
				"Break the ice", "Once in a blue moon", "Piece of cake",
				"Hit the nail on the head", "Costs an arm and a leg", "Under the weather",
				"Blessing in disguise", "Call it a day",
			},
			"business": {
				"Agreement", "Investment", "Profit", "Budget", "Strategy", "Management",
				"Marketing", "Negotiation", "Partnership", "Competition", "Innovation",
				"Development", "Analysis",
			},
			"technology": {
				"Computer", "Internet", "Software", "Hardware", "Database", "Algorithm",
				"Programming", "Security", "Network", "Server", "Application", "Interface",
				"Technology", "Digital",
			},
			"science": {
				"Experiment", "Research", "Theory", "Hypothesis", "Evidence", "Discovery",
				"Laboratory", "Chemistry", "Physics", "Biology", "Mathematics", "Analysis",
				"Observation", "Conclusion",
			},
			"complex_phrases": {
				"It's raining cats and dogs", "The early bird catches the worm",
				"Actions speak louder than words", "Don't put all your eggs in one basket",
				"Every cloud has a silver lining", "Rome wasn't built in a day",
				"When in Rome, do as the Romans do", "Better late than never",
			},
			"academic": {
				"University", "Scholarship", "Degree", "Research", "Thesis", "Professor",
				"Lecture", "Assignment", "Examination", "Graduate", "Curriculum", "Semester",
				"Academic", "Knowledge",
			},
		},
	}
}
