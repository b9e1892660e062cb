package moderation

// Rules is the community ruleset embedded in every moderation prompt.
const Rules = `
Minecraft Server Rules
• No Hacked Clients
• No Movement Mods
• No Inventory Mod
• No Health Indicators
• No Radar
• No Freecam
• No Auto or Easy Place
• No Macros or Scripts
• No Auto Clicker
• No Mouse Tweaks/ Scrollers
• No Crafting Modifications
• No Abusing Bugs
• No Attempted Duplicating
• No Duplicating Items
• No IRL Trading
• No Invite Rewards
• No External Gambling
• No Discord Boost Rewards
• No Cross-Server Trading
• No Staff Impersonation
• No Using More Than 5 Accounts
• No Finding or Using the Seed
• No Spamming Voice Chat
• Report all Bugs, Glitches, and Cheaters

Chat Rules
• No Spamming or getting others to spam
• No Harassing
• No Advertising or Promotion (except for the <#786066953105702932> channel)
• No Discrimination or Hate Speech
• No Death Threats
• No Sharing Others Private Information
• No Pretending to be Staff Members
• No Ban Evasion
• No Dumb Forum Posts
• Use common sense, so don't do things that will get you banned just because the specific rule isn't up here
`
