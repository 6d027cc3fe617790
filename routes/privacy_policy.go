package routes

import (
	"net/http"
)

const privacyPolicy = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Match Royale Privacy Policy</title>
</head>
<body>
	<h1>Privacy Policy</h1>
	<p>Match Royale stores your email, a hashed password, the profile you fill in, the images you upload, your matches and the messages you exchange with them.</p>
	<p>Profiles are shown to other signed-in users on the swipe screen. Messages are only visible to the two people in a conversation.</p>
	<p>Passwords are never stored in clear text.</p>
</body>
</html>
`

// PrivacyPolicyHandler serves the privacy policy required by the app stores
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(privacyPolicy))
}
