package bot

// CommandInfo documents one bot command for the help listing.
type CommandInfo struct {
	Name        string
	Explanation string
	Example     string
	Syntax      string // optional; shown in parentheses when set
}

// commands is the catalogue rendered by the help command.
var commands = []CommandInfo{
	{
		Name:        "help",
		Explanation: "Explains the bot's commands",
		Example:     "help",
	},
	{
		Name:        "join",
		Explanation: "Joins channels",
		Example:     "join #python ##android",
		Syntax:      "join <space-separated list of channels>",
	},
	{
		Name:        "stats",
		Explanation: "Shows session statistics",
		Example:     "stats",
	},
}

// Describe renders the command for the help reply, e.g.
// "join (join <channels>) - Joins channels (e.g., bot1: join #python)".
func (c CommandInfo) Describe(trigger string) string {
	s := c.Name
	if c.Syntax != "" {
		s += " (" + c.Syntax + ")"
	}
	return s + " - " + c.Explanation + " (e.g., " + trigger + c.Example + ")"
}
