package ValidEmojis

import "strings"

// validEmojis is the fixed vocabulary of reaction names playback may
// attach. Standard Slack emoji only, no workspace-custom reactions.
var validEmojis = []string{
	"grinning", "grimacing", "grin", "joy", "smiley", "smile",
	"sweat_smile", "laughing", "innocent", "wink", "blush", "slightly_smiling_face",
	"upside_down_face", "relaxed", "yum", "relieved", "heart_eyes", "kissing_heart",
	"kissing", "kissing_smiling_eyes", "kissing_closed_eyes", "stuck_out_tongue_winking_eye", "stuck_out_tongue_closed_eyes", "stuck_out_tongue",
	"money_mouth_face", "nerd_face", "sunglasses", "hugging_face", "smirk", "no_mouth",
	"neutral_face", "expressionless", "unamused", "roll_eyes", "thinking", "flushed",
	"disappointed", "worried", "angry", "rage", "pensive", "confused",
	"slightly_frowning_face", "frowning_face", "persevere", "confounded", "tired_face", "weary",
	"triumph", "open_mouth", "scream", "fearful", "cold_sweat", "hushed",
	"frowning", "anguished", "cry", "disappointed_relieved", "sleepy", "sweat",
	"sob", "dizzy_face", "astonished", "zipper_mouth_face", "mask", "face_with_thermometer",
	"face_with_head_bandage", "sleeping", "zzz", "poop", "smiling_imp", "imp",
	"japanese_ogre", "japanese_goblin", "skull", "ghost", "alien", "robot_face",
	"smiley_cat", "smile_cat", "joy_cat", "heart_eyes_cat", "smirk_cat", "kissing_cat",
	"scream_cat", "crying_cat_face", "pouting_cat", "raised_hands", "clap", "wave",
	"thumbsup", "thumbsdown", "punch", "fist", "v", "ok_hand",
	"raised_hand", "open_hands", "muscle", "pray", "point_up", "point_up_2",
	"point_down", "point_left", "point_right", "middle_finger", "hand_splayed", "metal",
	"vulcan", "writing_hand", "nail_care", "lips", "tongue", "ear",
	"nose", "eye", "eyes", "bust_in_silhouette", "busts_in_silhouette", "speaking_head",
	"baby", "boy", "girl", "man", "woman", "person_with_blond_hair",
	"older_man", "older_woman", "man_with_gua_pi_mao", "man_with_turban", "cop", "construction_worker",
	"guardsman", "spy", "santa", "angel", "princess", "bride_with_veil",
	"walking", "runner", "dancer", "dancers", "couple", "two_men_holding_hands",
	"two_women_holding_hands", "bow", "information_desk_person", "no_good", "ok_woman", "raising_hand",
	"person_with_pouting_face", "person_frowning", "haircut", "massage", "couple_with_heart", "couplekiss",
	"family", "womans_clothes", "shirt", "jeans", "necktie", "dress",
	"bikini", "kimono", "lipstick", "kiss", "footprints", "high_heel",
	"sandal", "boot", "mans_shoe", "athletic_shoe", "womans_hat", "tophat",
	"mortar_board", "crown", "helmet_with_cross", "school_satchel", "pouch", "purse",
	"handbag", "briefcase", "eyeglasses", "dark_sunglasses", "ring", "closed_umbrella",
	"dog", "cat", "mouse", "hamster", "rabbit", "bear",
	"panda_face", "koala", "tiger", "lion_face", "cow", "pig",
	"pig_nose", "frog", "octopus", "monkey_face", "see_no_evil", "hear_no_evil",
	"speak_no_evil", "monkey", "chicken", "penguin", "bird", "baby_chick",
	"hatching_chick", "hatched_chick", "wolf", "boar", "horse", "unicorn",
	"bee", "bug", "snail", "beetle", "ant", "spider",
	"scorpion", "crab", "snake", "turtle", "tropical_fish", "fish",
	"blowfish", "dolphin", "whale", "whale2", "crocodile", "leopard",
	"tiger2", "water_buffalo", "ox", "cow2", "dromedary_camel", "camel",
	"elephant", "goat", "ram", "sheep", "racehorse", "pig2",
	"rat", "mouse2", "rooster", "turkey", "dove", "dog2",
	"poodle", "cat2", "rabbit2", "chipmunk", "feet", "dragon",
	"dragon_face", "cactus", "christmas_tree", "evergreen_tree", "deciduous_tree", "palm_tree",
	"seedling", "herb", "shamrock", "four_leaf_clover", "bamboo", "tanabata_tree",
	"leaves", "fallen_leaf", "maple_leaf", "mushroom", "ear_of_rice", "bouquet",
	"tulip", "rose", "wilted_rose", "hibiscus", "cherry_blossom", "blossom",
	"sunflower", "sun_with_face", "full_moon_with_face", "first_quarter_moon_with_face", "last_quarter_moon_with_face", "new_moon_with_face",
	"waxing_crescent_moon", "waning_crescent_moon", "first_quarter_moon", "waning_gibbous_moon", "last_quarter_moon", "new_moon",
	"waxing_gibbous_moon", "full_moon", "crescent_moon", "earth_africa", "earth_americas", "earth_asia",
	"volcano", "milky_way", "partly_sunny", "octocat", "squirrel",
}

var emojiSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(validEmojis))
	for _, name := range validEmojis {
		set[name] = struct{}{}
	}
	return set
}()

// Normalize strips the colon delimiters the model tends to wrap reaction
// names in and checks the result against the allow-list. The second
// return value is false for anything outside the vocabulary; callers log
// and skip that single reaction, never the surrounding message.
func Normalize(token string) (string, bool) {
	emojiName := strings.TrimSpace(strings.ReplaceAll(token, ":", ""))
	_, known := emojiSet[emojiName]
	return emojiName, known
}

// Count reports the vocabulary size.
func Count() int {
	return len(validEmojis)
}
