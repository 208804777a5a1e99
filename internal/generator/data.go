package generator

// Fixed reference lists the generator cycles through. Sessions and speakers
// are 1:1 with sessionTitles/speakerNames; everything else is picked randomly.

var sessionTitles = []string{
	"Opening Keynote: The Road Ahead",
	"Scaling Microservices in Production",
	"Designing Data-Intensive Dashboards",
	"Machine Learning for Product Teams",
	"The Art of API Design",
	"Observability Beyond Dashboards",
	"Security in the Age of AI",
	"From Monolith to Event-Driven",
	"Accessibility as a First-Class Feature",
	"Real-Time Analytics at Scale",
	"Developer Experience That Ships",
	"Cloud Cost Engineering",
	"Building Resilient Teams",
	"The Future of Edge Computing",
	"Closing Panel: Lessons Learned",
}

var speakerNames = []string{
	"Sarah Chen",
	"Marcus Rodriguez",
	"Priya Sharma",
	"James Wilson",
	"Elena Volkov",
	"David Kim",
	"Amara Okafor",
	"Thomas Mueller",
	"Yuki Tanaka",
	"Rachel Goldstein",
	"Carlos Mendoza",
	"Fatima Al-Rashid",
	"Oliver Bennett",
	"Ingrid Larsson",
	"Raj Patel",
}

var speakerTitles = []string{
	"Principal Engineer", "VP of Engineering", "Staff Product Designer",
	"Head of Data", "CTO", "Senior Researcher", "Engineering Manager",
	"Distinguished Architect", "Developer Advocate", "Director of Platform",
}

var companies = []string{
	"TechCorp", "DataFlow Systems", "CloudNine", "Streamline Labs",
	"Vertex Analytics", "NorthStar Digital", "Quantum Leap", "BlueShift",
	"Horizon Software", "PixelWorks", "Atlas Infrastructure", "Signal Labs",
}

var rooms = []string{
	"Main Hall", "Room A", "Room B", "Room C", "Workshop Studio", "Auditorium",
}

var tracks = []string{
	"Engineering", "Product", "Design", "Data", "Leadership",
}

var sessionTags = []string{
	"go", "cloud", "ai", "frontend", "architecture", "devops",
	"security", "data", "career", "performance", "testing", "ux",
}

var attendeeRoles = []string{
	"Software Engineer", "Product Manager", "Designer", "Data Scientist",
	"Engineering Manager", "CTO", "Student", "Consultant", "DevOps Engineer",
}

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Sam", "Jamie",
	"Avery", "Quinn", "Dana", "Robin", "Cameron", "Drew", "Skyler", "Reese",
	"Maria", "Wei", "Aisha", "Viktor", "Lena", "Omar", "Nina", "Pavel",
}

var lastNames = []string{
	"Smith", "Johnson", "Lee", "Garcia", "Martinez", "Nguyen", "Brown",
	"Davis", "Kumar", "Ivanov", "Sato", "Hansen", "Costa", "Novak",
	"Fischer", "Moreau", "Silva", "Haddad", "Berg", "Kowalski",
}

var feedbackComments = []string{
	"Great session, learned a lot!",
	"The speaker was very engaging.",
	"Would love a deeper dive into the examples.",
	"Excellent content, well structured.",
	"Solid talk, slides were a bit dense.",
	"Best session of the day so far.",
	"Practical takeaways I can use right away.",
	"Good overview, Q&A was the highlight.",
	"Inspiring talk, great energy.",
	"Clear explanations of a complex topic.",
}
