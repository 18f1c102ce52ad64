package services

import (
	"regexp"

	"github.com/roastivator/roastivator/internal/models"
)

// RoastPattern is one weighted classification rule. Source keeps the raw
// expression so finding templates can be keyed by it; the compiled form is
// case-insensitive. Positive severity worsens the score, negative improves it.
type RoastPattern struct {
	Source   string
	Pattern  *regexp.Regexp
	Severity int
	Category models.RoastCategory
}

func commitPattern(source string, severity int) RoastPattern {
	return RoastPattern{
		Source:   source,
		Pattern:  regexp.MustCompile("(?i)" + source),
		Severity: severity,
		Category: models.CategoryCommits,
	}
}

// Lazy commit-subject rules, in evaluation (and finding append) order.
// All matching rules contribute; this is not first-match-wins.
var lazyCommitPatterns = []RoastPattern{
	commitPattern(`^fix$|^fixed$|^fixes$`, 3),
	commitPattern(`^update$|^updated$`, 2),
	commitPattern(`^wip$|^work in progress$`, 4),
	commitPattern(`^oops$|^whoops$`, 4),
	commitPattern(`^lol$|^haha$|^lmao$`, 2),
	commitPattern(`^asdf$|^test$|^testing$`, 3),
	commitPattern(`^stuff$|^things$`, 3),
	commitPattern(`^temp$|^temporary$`, 2),
	commitPattern(`^refactor$`, 2),
	commitPattern(`^cleanup$`, 2),
}

// Professional commit-subject rules. Their negative severities apply silently
// when matches exceed 30% of analyzed commits; no finding is ever produced.
var professionalCommitPatterns = []RoastPattern{
	commitPattern(`^feat(\(.+\))?:|^feature:`, -1),
	commitPattern(`^fix(\(.+\))?:|^bugfix:`, -1),
	commitPattern(`^docs(\(.+\))?:`, -1),
	commitPattern(`^style(\(.+\))?:`, -1),
	commitPattern(`^refactor(\(.+\))?:`, -1),
	commitPattern(`^test(\(.+\))?:`, -1),
}

var (
	suspiciousRepoPattern = regexp.MustCompile(`(?i)test|demo|practice|tutorial|learning|copy|clone|backup|playground|sandbox`)

	// Condensed lazy check used only by the commit insight heuristic
	lazySubjectPattern = regexp.MustCompile(`(?i)^(fix|update|wip|oops|test|stuff)$`)

	emojiPattern         = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)
	overusedEmojiPattern = regexp.MustCompile(`🎉|🚀|💯|✨|🔥|❤️|👏|🎊|🌟`)
)

// EasterEgg is a fixed report substituted for well-known identities
type EasterEgg struct {
	Roast string
	Score int
}

// Keyed by lower-cased login
var easterEggs = map[string]EasterEgg{
	"torvalds": {
		Roast: "Linus Torvalds? Really? The man who created Linux and Git is being roasted by a website that probably runs on his inventions. The audacity is almost as impressive as your kernel contributions.",
		Score: 1,
	},
	"gaearon": {
		Roast: "Dan Abramov getting roasted? The React team might revoke your JSX privileges for this. Your useEffect hooks are cleaner than most people's entire codebases.",
		Score: 1,
	},
	"sindresorhus": {
		Roast: "Sindre Sorhus? You have more npm packages than most people have GitHub repos. You're basically the human embodiment of 'npm install everything'.",
		Score: 1,
	},
	"addyosmani": {
		Roast: "Addy Osmani? The man who wrote half the web performance guidelines is here for a roast? Your Lighthouse scores are probably perfect, aren't they?",
		Score: 1,
	},
	"tj": {
		Roast: "TJ Holowaychuk? The Express.js and Koa creator? You've probably forgotten more JavaScript frameworks than most people have ever learned.",
		Score: 1,
	},
	"kentcdodds": {
		Roast: "Kent C. Dodds? The testing guru himself? Your test coverage is probably so high it makes other developers question their life choices.",
		Score: 1,
	},
	"wesbos": {
		Roast: "Wes Bos? The man who taught half the internet JavaScript? Your courses probably have better documentation than most production codebases.",
		Score: 1,
	},
}
