package domain

// Domain groups the topics offered for one interview domain.
type Domain struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// DifficultyLevel describes one selectable difficulty.
type DifficultyLevel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InterviewFormat describes one selectable interview format.
type InterviewFormat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Language is a code-editor language option for coding interviews.
type Language struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Domains is the static interview domain catalog.
var Domains = []Domain{
	{
		ID:   "dsa",
		Name: "Data Structures & Algorithms",
		Topics: []string{
			"Arrays & Strings", "Linked Lists", "Stacks & Queues",
			"Trees & Graphs", "Sorting & Searching", "Dynamic Programming",
			"Greedy Algorithms", "Backtracking", "Hash Tables",
			"Heaps & Priority Queues",
		},
	},
	{
		ID:   "python",
		Name: "Python Programming",
		Topics: []string{
			"Python Basics", "Data Types & Collections", "Functions & Decorators",
			"OOP Concepts", "File Handling", "Exception Handling",
			"Modules & Packages", "Comprehensions", "Generators & Iterators",
			"Async Programming",
		},
	},
	{
		ID:   "javascript",
		Name: "JavaScript Development",
		Topics: []string{
			"JavaScript Fundamentals", "ES6+ Features", "DOM Manipulation",
			"Async/Await & Promises", "Closures & Scope", "Prototypes & Inheritance",
			"Event Loop", "Error Handling", "Modules", "Design Patterns",
		},
	},
	{
		ID:   "web-dev",
		Name: "Web Development",
		Topics: []string{
			"HTML & CSS", "Responsive Design", "React.js", "State Management",
			"API Integration", "Authentication", "Performance Optimization",
			"Testing", "Deployment", "Security Best Practices",
		},
	},
	{
		ID:   "system-design",
		Name: "System Design",
		Topics: []string{
			"Scalability Concepts", "Database Design", "Caching Strategies",
			"Load Balancing", "Microservices", "API Design", "Message Queues",
			"CAP Theorem", "Distributed Systems", "Design Patterns",
		},
	},
	{
		ID:   "database",
		Name: "Database Management",
		Topics: []string{
			"SQL Fundamentals", "Database Normalization", "Indexing",
			"Transactions & ACID", "Query Optimization", "NoSQL Databases",
			"Database Design", "Stored Procedures", "Joins & Subqueries",
			"Data Modeling",
		},
	},
}

// DifficultyLevels is the static difficulty catalog.
var DifficultyLevels = []DifficultyLevel{
	{ID: "beginner", Name: "Beginner", Description: "Basic concepts and fundamentals"},
	{ID: "intermediate", Name: "Intermediate", Description: "Applied knowledge and problem-solving"},
	{ID: "advanced", Name: "Advanced", Description: "Complex scenarios and optimization"},
}

// InterviewFormats is the static format catalog.
var InterviewFormats = []InterviewFormat{
	{ID: "verbal", Name: "Verbal/Conversational", Description: "Theoretical questions with voice or text responses"},
	{ID: "coding", Name: "Coding Assessment", Description: "Hands-on coding problems with test cases"},
}

// SupportedLanguages lists the editor languages offered for coding sessions.
// Only JavaScript is executed by the sandbox; the rest run through the mock
// result path.
var SupportedLanguages = []Language{
	{ID: "javascript", Name: "JavaScript", Extension: "js"},
	{ID: "python", Name: "Python", Extension: "py"},
	{ID: "java", Name: "Java", Extension: "java"},
	{ID: "cpp", Name: "C++", Extension: "cpp"},
	{ID: "typescript", Name: "TypeScript", Extension: "ts"},
}
