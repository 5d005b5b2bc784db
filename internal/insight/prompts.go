package insight

// summaryPromptTemplate takes net worth, target amount, target date, projection, status and top categories
const summaryPromptTemplate = `Act as a smart, empathetic financial coach.

User Status:
- Current Net Worth: $%s
- Goal: Save $%s by %s
- Projected Trend: $%s (%s)

Their Top Spending Areas (Last 2 Months):
%s

Task:
Write a 2-sentence insight.
1. First sentence: React to their progress (Celebrate if on track, encourage if off track).
2. Second sentence: Give specific advice referencing their actual top spending categories above.

Do not use markdown. Keep it conversational.`

// analysisPromptTemplate takes one "- Name ($Amount) [Category]" line per expense
const analysisPromptTemplate = `Analyze these anonymized bank transactions (Last 60 Days):
%s
Your Goal: Find "Gray Charges" (Subscriptions) and "Savings Opportunities".
Tone: Casual, like a savvy friend. Use emojis where appropriate.

Output Format (Return ONLY this list):
1. [Subscription 📺] Name ($Amount) - Is this actually essential?
2. [Habit ☕] Pattern found. Suggest a cheaper swap.
3. [Tip 💡] One specific, easy tip to save money based on this data.

Keep it brief and punchy. No corporate speak.`
