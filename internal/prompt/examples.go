package prompt

// One-shot examples keyed by outreach objective. The generator prompt embeds
// the example matching the requested objective so the model anchors on a
// concrete register instead of inventing one. Unrecognized objectives fall
// back to the generic example.

const genericExample = `Hi Priya — your post on migrating a monolith one bounded context at a time matched almost exactly what my team just went through, down to the strangler-fig false start. I lead platform work at Finch and we landed on a similar playbook. Would love to trade notes sometime if you're open to it.`

var objectiveExamples = map[string]string{
	"networking": `Hi Priya — I caught your talk on event-driven billing at QCon and the section on idempotency keys has been making the rounds on my team ever since. I work on payments infrastructure at Finch, so a lot of your war stories felt familiar. Would you be open to a short call to compare notes? No agenda beyond that.`,

	"job_inquiry": `Hi Marcus — I saw Relay is hiring for the platform team you lead. I've spent four years running Kubernetes migrations at Finch, including the multi-region failover work your job post describes almost word for word. Before applying cold I wanted to ask: is the role more greenfield build-out or hardening what exists? Happy to share specifics either way.`,

	"sales": `Hi Elena — congrats on the Series B. Scaling support from 5 to 50 agents usually breaks the tooling before it breaks the team; I work with Drift on exactly that transition, and Modal's setup looks a lot like two customers we onboarded last quarter. Worth a 15-minute look at what they changed? If the timing is wrong, just say so.`,

	"partnership": `Hi Tomas — Northbeam's attribution data and our creative-testing platform keep coming up in the same customer conversations, most recently with two DTC brands we both work with. I think there's a clean integration story here. Open to a call to see whether the overlap is real? I can bring the customer examples.`,

	"recruiting": `Hi Amara — your open-source work on columnar compaction is some of the cleanest systems code I've read this year. I'm building the storage team at Finch and we're tackling the same class of problems at a rather uncomfortable scale. Not pitching a role in a first message — just asking if you'd be curious to hear what we're up against.`,
}

// exampleForObjective returns the one-shot example for the objective,
// falling back to the generic example for anything unrecognized.
func exampleForObjective(objective string) string {
	if example, ok := objectiveExamples[objective]; ok {
		return example
	}
	return genericExample
}
