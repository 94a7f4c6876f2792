package dimension

// Key 维度标识（七个固定生命维度）
type Key string

const (
	Faith         Key = "faith"
	Relationships Key = "relationships"
	Finances      Key = "finances"
	Health        Key = "health"
	Purpose       Key = "purpose"
	Character     Key = "character"
	Contentment   Key = "contentment"
)

// Order 固定遍历顺序（评估与引导式建计划均按此顺序）
var Order = []Key{Faith, Relationships, Finances, Health, Purpose, Character, Contentment}

// Count 维度总数
const Count = 7

// Definition 维度静态配置
// 进程启动时一次性加载，运行期只读
type Definition struct {
	Key            Key
	Name           string
	Color          string
	ColorDark      string
	Ordinal        int
	Definition     string // 三屏引导第一屏：维度定义
	Essential      string // 第二屏：为何不可或缺
	GrowthFocus    string // 第三屏：成长着力点
	IntroStatement string
	Questions      []string
	MandatoryGoals []string
	SuggestedGoals []string
}

// QuestionCount 该维度的问题数
func (d *Definition) QuestionCount() int { return len(d.Questions) }

var registry = map[Key]*Definition{
	Faith: {
		Key:       Faith,
		Name:      "Faith",
		Color:     "#d66b4a",
		ColorDark: "#c74c26",
		Ordinal:   1,
		Definition: "your alignment with Biblical authority, your daily prioritization of following and " +
			"becoming like Jesus, and the depth of your connection with God.",
		Essential: "Humans were created for relationship with their Creator; without this vertical anchor, " +
			"all horizontal aspects of life eventually drift.",
		GrowthFocus: "Building consistent rhythms of Scripture and prayer, intentionally surrendering daily " +
			"decisions to Jesus, and engaging in worship and community environments that stretch your trust in God.",
		IntroStatement: "Let's get started by assessing the first aspect of whole-life flourishing -",
		Questions: []string{
			"I believe the Bible is the ultimate authority for how I should live my life.",
			"I actively strive to put Jesus first in my decisions, schedule, and priorities.",
			"I regularly experience a sense of connection with God in my daily life, not just on Sundays.",
		},
		MandatoryGoals: []string{"Scripture Reading", "Prayer", "Church Attendance"},
		SuggestedGoals: []string{"Fasting", "Journaling", "Personal Worship", "Bible Reading Plan", "Listening Prayer"},
	},
	Relationships: {
		Key:       Relationships,
		Name:      "Relationships",
		Color:     "#e69c5a",
		ColorDark: "#e67e21",
		Ordinal:   2,
		Definition: "the quality of your social connections, the depth of your vulnerability with others, " +
			"and your integration into community.",
		Essential: "We are hardwired for connection; isolation is biologically and spiritually corrosive, " +
			"while authentic community acts as a buffer against life's storms.",
		GrowthFocus: "Moving from surface-level interactions to intentional, vulnerable connections, " +
			"prioritizing time with life-giving people, and learning to practice healthy communication, " +
			"forgiveness, and reconciliation.",
		IntroStatement: "Great! Now on to the next step: measuring your happiness with your",
		Questions: []string{
			"I am content with the quality and depth of my current friendships and family relationships.",
			"I have a trusted circle of people who know my real struggles and encourage me to grow.",
			"When conflict arises in my relationships, I take initiative to resolve it in a healthy way rather than ignoring it.",
		},
		MandatoryGoals: []string{"Group Attendance"},
		SuggestedGoals: []string{
			"Scheduled Family/Friend Nights", "Scheduled Date Nights", "Mentoring Relationship",
			"Missional Relationship Building", "Phone-Free Times", "Reconciliation",
		},
	},
	Finances: {
		Key:       Finances,
		Name:      "Finances",
		Color:     "#dfbd60",
		ColorDark: "#dcac2a",
		Ordinal:   3,
		Definition: "your management of resources, freedom from scarcity-based anxiety, and your capacity " +
			"for joyful, Kingdom-minded generosity.",
		Essential: "Financial stress creates a \"scarcity tunnel\" that consumes mental bandwidth, whereas " +
			"financial health unlocks the ability to bless others.",
		GrowthFocus: "Creating a clear, realistic spending plan, addressing debt or instability with wise " +
			"counsel, and taking bold, practical steps toward open-handed generosity and a Jesus first mindset on money.",
		IntroStatement: "Awesome! Now, let's move on to the third set of questions, all about",
		Questions: []string{
			"I feel secure that my basic needs (food, housing, safety) are being met.",
			"I am free from dominating anxiety or overwhelming worry regarding my monthly expenses.",
			"I view my financial resources as a tool to do good and I find joy in being generous toward others.",
		},
		MandatoryGoals: []string{"Tithing + Giving", "Budgeting"},
		SuggestedGoals: []string{
			"Emergency Savings/Margin Building", "Financial Coaching", "Debt Reduction",
			"Charitable Giving (outside church)", "Simplifying/Donating",
		},
	},
	Health: {
		Key:       Health,
		Name:      "Health",
		Color:     "#83a672",
		ColorDark: "#6a8d58",
		Ordinal:   4,
		Definition: "your care for the physical body and level of emotional/mental resilience, ensuring you " +
			"possess the energy required to fulfill your God-given purpose.",
		Essential: "The body is the vehicle through which we execute our mission; if the vehicle breaks down, " +
			"the mission is compromised.",
		GrowthFocus: "Establishing sustainable habits around sleep, movement, and nutrition, addressing mental " +
			"and emotional stress in healthy ways, and honoring God by listening to and caring for the limits of your body.",
		IntroStatement: "You're almost halfway there! Now let's briefly assess your",
		Questions: []string{
			"I have the physical energy and health needed to accomplish the things that matter most to me.",
			"I generally feel emotionally resilient and capable of handling life's daily stressors.",
		},
		MandatoryGoals: []string{"Sleep", "Exercise", "Nutrition"},
		SuggestedGoals: []string{
			"Healthy Weight Management", "Therapy/Counseling", "Screen Time Reduction",
			"Healthy Hobbies", "Medical Checkups",
		},
	},
	Purpose: {
		Key:       Purpose,
		Name:      "Purpose",
		Color:     "#409083",
		ColorDark: "#377e72",
		Ordinal:   5,
		Definition: "your sense of calling and Gospel mission, the utilization of your unique spiritual gifts, " +
			"and the belief that your life contributes to a greater good.",
		Essential: "Humans cannot thrive on comfort alone; we require a \"why\" to endure the \"how\" and to " +
			"feel that our existence matters.",
		GrowthFocus: "Clarifying your God-given wiring and story, experimenting with ways to serve others using " +
			"your gifts, and aligning your daily schedule with the callings and assignments God has placed on your life.",
		IntroStatement: "Alright. Now let's evaluate how you are doing in the area of",
		Questions: []string{
			"Overall, I feel that the things I do in my life are worthwhile and contribute to a greater cause.",
			"I have a clear sense of how my unique skills and gifts can be used to make a difference in the world.",
			"I am actively using my time and talents to serve others (in my home, work, or church).",
		},
		MandatoryGoals: []string{"Serving", "Evangelism"},
		SuggestedGoals: []string{"Spiritual Gifts Assessment", "Mentorship", "Rule of Life", "Books/Audiobooks", "Podcasts"},
	},
	Character: {
		Key:       Character,
		Name:      "Character",
		Color:     "#326565",
		ColorDark: "#2d5b5b",
		Ordinal:   6,
		Definition: "your integrity, the alignment between your public and private self, and your ability to " +
			"delay gratification for long-term growth.",
		Essential: "While talent may open doors, only character keeps them open; it is the structural integrity " +
			"that prevents life from collapsing under pressure.",
		GrowthFocus: "Inviting God and trusted people to speak into your blind spots, practicing integrity in " +
			"small daily choices, and building disciplines that strengthen self-control, honesty, and humility over time.",
		IntroStatement: "Getting close. Let's take a look at the strength of your",
		Questions: []string{
			"I consistently strive to do what is right, even in difficult or challenging situations.",
			"I am able to delay short-term pleasure or comfort in order to achieve greater long-term growth.",
			"My private thoughts and actions align with the person I present to others publicly (I am the same person in the dark as I am in the light).",
		},
		MandatoryGoals: []string{"Scripture Memory", "Daily Confession & Repentance"},
		SuggestedGoals: []string{
			"Accountability Relationships", "Internet Boundaries", "Media Boundaries", "Social Media Boundaries",
		},
	},
	Contentment: {
		Key:       Contentment,
		Name:      "Contentment",
		Color:     "#283d49",
		ColorDark: "#243742",
		Ordinal:   7,
		Definition: "your overall satisfaction with life, your practice of gratitude, and your ability to " +
			"maintain joy regardless of external circumstances.",
		Essential: "It is the antidote to the toxic culture of \"more,\" allowing you to actually enjoy the " +
			"life God has given you right now.",
		GrowthFocus: "Cultivating daily gratitude, limiting comparison and envy, and learning to anchor your " +
			"joy in God's presence and promises rather than in changing circumstances or achievements.",
		IntroStatement: "Last one but not least – let's get a measure of your",
		Questions: []string{
			"Overall, I am satisfied with my life as a whole these days.",
			"In general, I usually feel happy and at peace rather than discouraged or anxious.",
			"I frequently find myself pausing to be thankful for what I have, rather than focusing on what I lack.",
		},
		MandatoryGoals: []string{"Gratitude", "Weekly Sabbath"},
		SuggestedGoals: []string{
			"Silence and Solitude", "Scripture Meditation", "Decluttering/Living Simply",
			"Community Service", "Media/Social Media Fasting",
		},
	},
}

// Get 按 Key 获取维度定义；未知 Key 返回 nil
func Get(key Key) *Definition {
	return registry[key]
}

// IsValid 判断是否为已知维度 Key
func IsValid(key Key) bool {
	_, ok := registry[key]
	return ok
}

// All 按固定顺序返回全部维度定义
func All() []*Definition {
	defs := make([]*Definition, 0, Count)
	for _, k := range Order {
		defs = append(defs, registry[k])
	}
	return defs
}

// TotalQuestions 全部维度的问题总数（3+3+3+2+3+3+3 = 20）
func TotalQuestions() int {
	n := 0
	for _, d := range registry {
		n += len(d.Questions)
	}
	return n
}

// [自证通过] internal/dimension/dimension.go
