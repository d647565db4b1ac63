package auth

// commonPasswords is a curated subset of widely-leaked passwords, checked
// case-insensitively at registration.
var commonPasswords = []string{
	"password", "password1", "password123", "passw0rd", "p@ssw0rd",
	"123456", "1234567", "12345678", "123456789", "1234567890",
	"qwerty", "qwerty123", "qwertyuiop", "asdfghjkl", "zxcvbnm",
	"abc123", "abcd1234", "letmein", "welcome", "welcome1",
	"iloveyou", "sunshine", "princess", "dragon", "monkey",
	"football", "baseball", "soccer", "hockey", "superman",
	"batman", "master", "shadow", "michael", "jennifer",
	"charlie", "jordan", "hunter", "ranger", "daniel",
	"hannah", "thomas", "summer", "winter", "ashley",
	"buster", "soccer1", "freedom", "whatever", "trustno1",
	"starwars", "computer", "internet", "secret", "login",
	"admin", "admin123", "root", "pass", "test",
	"test123", "guest", "changeme", "default", "access",
	"111111", "000000", "121212", "654321", "696969",
	"112233", "123123", "666666", "777777", "888888",
	"blink182", "pokemon", "flower", "ginger", "cookie",
	"cheese", "pepper", "banana", "orange", "purple",
	"killer", "mustang", "harley", "corvette", "ferrari",
	"maggie", "jessica", "amanda", "nicole", "matthew",
	"andrew", "joshua", "anthony", "william", "george",
}
