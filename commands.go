package catfocus

const (
	StartCommand   = "start"
	PauseCommand   = "pause"
	ToggleCommand  = "toggle"
	ResetCommand   = "reset"
	SwitchCommand  = "switch"
	FeedCommand    = "feed"
	PlayCommand    = "play"
	CollectCommand = "collect"
	LaterCommand   = "later"
	TaskCommand    = "task"
	CardsCommand   = "cards"
	EventsCommand  = "events"
	LogCommand     = "log"
	DeleteCommand  = "rm"
	StatusCommand  = "status"
	StatsCommand   = "stats"
	HelpCommand    = "help"
	QuitCommand    = "quit"
)

const (
	SearchOption = "search"
	RarityOption = "rarity"
	SortOption   = "sort"
)

type CommandDescription struct {
	Name, Usage, Description string
}

var Commands = []CommandDescription{
	{StartCommand, "start", "start the countdown"},
	{PauseCommand, "pause", "pause the countdown"},
	{ToggleCommand, "toggle", "start or pause the countdown"},
	{ResetCommand, "reset", "reset the current session to its full duration"},
	{SwitchCommand, "switch", "switch between focus and break (no reward)"},
	{FeedCommand, "feed", "feed your cat a treat (+20 happiness, +10 energy)"},
	{PlayCommand, "play", "play with your cat using a toy (+30 happiness, -10 energy)"},
	{CollectCommand, "collect", "add the pending reward card to your collection"},
	{LaterCommand, "later", "dismiss the pending reward card"},
	{TaskCommand, "task [name]", "name the current focus task (empty clears)"},
	{CardsCommand, "cards [search=<text>] [rarity=<rarity>] [sort=name|rarity|obtained]", "list your collection"},
	{EventsCommand, "events [sort=timestamp|eventName|tag|type] [asc|desc]", "list session history"},
	{LogCommand, "log <name> <tag> <focus|break>", "log a session event manually"},
	{DeleteCommand, "rm <id>", "delete a session event"},
	{StatusCommand, "status", "show timer and cat state"},
	{StatsCommand, "stats", "show progress and collection stats"},
	{HelpCommand, "help", "show this help"},
	{QuitCommand, "quit", "exit"},
}
