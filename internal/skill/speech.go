package skill

import "strings"

// Canonical spoken responses. Every failure below the router maps to one
// of these; raw errors never reach the platform.
const (
	speechWelcome = `<speak><voice name="Joanna">Welcome Scientist. You are aboard the derelict space station. The crew has been missing for weeks. Strange organic growths cover the walls. Something is hunting in the shadows. What would you like to do?</voice></speak>`

	speechRepeat = `<speak><voice name="Joanna">I didn't catch that. Could you please repeat your command?</voice></speak>`

	speechHelp = `<speak><voice name="Joanna">You can explore the space station by describing your actions. Try saying things like open the door, check the medbay, or search for survivors.</voice></speak>`

	speechFarewell = `<speak><voice name="Joanna">Mission terminated. Good luck out there.</voice></speak>`

	speechNotConfigured = `<speak><voice name="Joanna">Sorry, the AI service is not configured. Please check your environment variables.</voice></speak>`

	speechTimeout = `<speak><voice name="Joanna">System is taking too long to respond. Please try again.</voice></speak>`

	speechUnavailable = `<speak><voice name="Joanna">Sorry, the AI service is currently unavailable. Please try again later.</voice></speak>`

	speechNotUnderstood = `<speak><voice name="Joanna">Sorry, I didn't understand that. Please try opening the skill again.</voice></speak>`

	speechUnknownCommand = `<speak><voice name="Joanna">I did not understand that command. Please try again.</voice></speak>`

	speechSystemError = `<speak><voice name="Joanna">System error. Please try again.</voice></speak>`
)

const (
	cardTitle   = "Bug Hunt"
	cardWelcome = "Mission online. Awaiting orders."
)

// isTermination reports whether a spoken utterance is an explicit
// end-of-session request.
func isTermination(utterance string) bool {
	switch strings.ToLower(strings.TrimSpace(utterance)) {
	case "stop", "cancel", "quit", "exit", "end game", "end mission":
		return true
	}
	return false
}
