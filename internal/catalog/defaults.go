// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package catalog

import "github.com/theoryforge/theoryforge/internal/build"

// standardRes is the resistance floor most templates aim for: capped
// elemental resistances with negative chaos tolerated.
func standardRes(chaos int) map[string]int {
	return map[string]int{
		build.ElementFire:      build.ResistanceCap,
		build.ElementCold:      build.ResistanceCap,
		build.ElementLightning: build.ResistanceCap,
		build.ElementChaos:     chaos,
	}
}

// DefaultTemplates returns the built-in curated template set. The data is
// hand-maintained; New validates it on startup so a bad edit fails fast.
func DefaultTemplates() []Template {
	return []Template{
		// Ranger
		{
			Name:          "Lightning Arrow Deadeye",
			Archetype:     build.ArchetypeSpeedFarmer,
			Class:         "Ranger",
			Ascendancy:    "Deadeye",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamageLightning,
			PrimarySkills: []string{"Lightning Arrow", "Ice Shot"},
			SupportGems: []string{
				"Mirage Archer", "Added Cold Damage", "Elemental Damage with Attacks",
				"Inspiration", "Increased Critical Strikes", "Trinity",
			},
			EssentialItems: []string{"Windripper", "Queen of the Forest"},
			Keystones:      []string{"Acrobatics"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      400000,
			TargetEHP:      5000,
			BudgetMin:      3,
			BudgetMax:      12,
			MinResistances: standardRes(-60),
		},
		{
			Name:          "Toxic Rain Pathfinder",
			Archetype:     build.ArchetypeLeagueStarter,
			Class:         "Ranger",
			Ascendancy:    "Pathfinder",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamageChaos,
			PrimarySkills: []string{"Toxic Rain", "Caustic Arrow"},
			SupportGems: []string{
				"Mirage Archer", "Vicious Projectiles", "Swift Affliction",
				"Void Manipulation", "Unbound Ailments", "Efficacy",
			},
			EssentialItems: []string{"Quill Rain", "Dendrobate"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      250000,
			TargetEHP:      5500,
			BudgetMin:      0.5,
			BudgetMax:      5,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Tornado Shot Deadeye",
			Archetype:     build.ArchetypePureDamage,
			Class:         "Ranger",
			Ascendancy:    "Deadeye",
			Complexity:    build.ComplexityExpert,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Tornado Shot"},
			SupportGems: []string{
				"Inspiration", "Increased Critical Damage", "Vicious Projectiles",
				"Brutality", "Maim", "Impale",
			},
			EssentialItems: []string{"Nimis", "Mageblood"},
			Keystones:      []string{"Point Blank"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      8000000,
			TargetEHP:      6000,
			BudgetMin:      50,
			BudgetMax:      300,
			MinResistances: standardRes(-30),
		},

		// Marauder
		{
			Name:          "Righteous Fire Juggernaut",
			Archetype:     build.ArchetypeTank,
			Class:         "Marauder",
			Ascendancy:    "Juggernaut",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamageFire,
			PrimarySkills: []string{"Righteous Fire", "Fire Trap"},
			SupportGems: []string{
				"Burning Damage", "Elemental Focus", "Concentrated Effect",
				"Increased Area of Effect", "Efficacy", "Swift Affliction",
			},
			EssentialItems: []string{"Rise of the Phoenix", "Kaom's Heart"},
			Keystones:      []string{"Unwavering Stance"},
			Tags:           []string{"life", "regen", "armour"},
			TargetDPS:      350000,
			TargetEHP:      9000,
			BudgetMin:      2,
			BudgetMax:      10,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Boneshatter Juggernaut",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Marauder",
			Ascendancy:    "Juggernaut",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Boneshatter"},
			SupportGems: []string{
				"Melee Physical Damage", "Multistrike", "Fortify",
				"Brutality", "Pulverise", "Rage",
			},
			EssentialItems: []string{"The Brass Dome", "Echoes of Creation"},
			Keystones:      []string{"Resolute Technique"},
			Tags:           []string{"life", "armour"},
			TargetDPS:      2000000,
			TargetEHP:      7500,
			BudgetMin:      5,
			BudgetMax:      40,
			MinResistances: standardRes(-20),
		},
		{
			Name:          "Earthquake Berserker",
			Archetype:     build.ArchetypeBossKiller,
			Class:         "Marauder",
			Ascendancy:    "Berserker",
			Complexity:    build.ComplexityAdvanced,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Earthquake"},
			SupportGems: []string{
				"Melee Physical Damage", "Brutality", "Fist of War",
				"Pulverise", "Concentrated Effect", "Impale",
			},
			EssentialItems: []string{"Marohi Erqi", "Ryslatha's Coil"},
			Tags:           []string{"life"},
			TargetDPS:      5000000,
			TargetEHP:      6000,
			BudgetMin:      10,
			BudgetMax:      80,
			MinResistances: standardRes(-30),
		},

		// Witch
		{
			Name:          "Summon Raging Spirit Necromancer",
			Archetype:     build.ArchetypeLeagueStarter,
			Class:         "Witch",
			Ascendancy:    "Necromancer",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamageFire,
			PrimarySkills: []string{"Summon Raging Spirit", "Raise Zombie"},
			SupportGems: []string{
				"Minion Damage", "Melee Splash", "Minion Speed",
				"Unleash", "Predator", "Infernal Legion",
			},
			EssentialItems: []string{"Tavukai", "The Covenant"},
			Keystones:      []string{"Mind Over Matter"},
			Tags:           []string{"life", "minion"},
			TargetDPS:      300000,
			TargetEHP:      5800,
			BudgetMin:      0.5,
			BudgetMax:      6,
			MinResistances: standardRes(-40),
		},
		{
			Name:          "Cold DoT Occultist",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Witch",
			Ascendancy:    "Occultist",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamageCold,
			PrimarySkills: []string{"Vortex", "Cold Snap"},
			SupportGems: []string{
				"Efficacy", "Controlled Destruction", "Swift Affliction",
				"Bonechill", "Hypothermia", "Arcane Surge",
			},
			EssentialItems: []string{"Rime Gaze", "Prism Guardian"},
			Keystones:      []string{"Chaos Inoculation", "Wicked Ward"},
			Tags:           []string{"energy-shield"},
			TargetDPS:      900000,
			TargetEHP:      7000,
			BudgetMin:      3,
			BudgetMax:      25,
			MinResistances: standardRes(0),
		},
		{
			Name:          "Arc Elementalist",
			Archetype:     build.ArchetypePureDamage,
			Class:         "Witch",
			Ascendancy:    "Elementalist",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamageLightning,
			PrimarySkills: []string{"Arc"},
			SupportGems: []string{
				"Spell Echo", "Added Lightning Damage", "Controlled Destruction",
				"Lightning Penetration", "Inspiration", "Elemental Focus",
			},
			EssentialItems: []string{"Inpulsa's Broken Heart"},
			Keystones:      []string{"Elemental Overload"},
			Tags:           []string{"hybrid"},
			TargetDPS:      1500000,
			TargetEHP:      5500,
			BudgetMin:      4,
			BudgetMax:      30,
			MinResistances: standardRes(-30),
		},

		// Duelist
		{
			Name:          "Lacerate Gladiator",
			Archetype:     build.ArchetypeLeagueStarter,
			Class:         "Duelist",
			Ascendancy:    "Gladiator",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Lacerate"},
			SupportGems: []string{
				"Melee Physical Damage", "Brutality", "Fortify",
				"Multistrike", "Pulverise", "Maim",
			},
			EssentialItems: []string{"Lioneye's Remorse"},
			Keystones:      []string{"Resolute Technique"},
			Tags:           []string{"life", "block"},
			TargetDPS:      400000,
			TargetEHP:      6500,
			BudgetMin:      0.5,
			BudgetMax:      8,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Cyclone Slayer",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Duelist",
			Ascendancy:    "Slayer",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Cyclone"},
			SupportGems: []string{
				"Melee Physical Damage", "Brutality", "Infused Channelling",
				"Impale", "Fortify", "Pulverise",
			},
			EssentialItems: []string{"Atziri's Disfavour"},
			Tags:           []string{"life"},
			TargetDPS:      2500000,
			TargetEHP:      6800,
			BudgetMin:      5,
			BudgetMax:      35,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Flicker Strike Slayer",
			Archetype:     build.ArchetypeSpeedFarmer,
			Class:         "Duelist",
			Ascendancy:    "Slayer",
			Complexity:    build.ComplexityExpert,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Flicker Strike"},
			SupportGems: []string{
				"Melee Physical Damage", "Multistrike", "Close Combat",
				"Impale", "Fortify", "Increased Critical Damage",
			},
			EssentialItems: []string{"Terminus Est", "Farrul's Fur"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      6000000,
			TargetEHP:      5200,
			BudgetMin:      20,
			BudgetMax:      150,
			MinResistances: standardRes(-30),
		},

		// Templar
		{
			Name:          "Storm Brand Hierophant",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Templar",
			Ascendancy:    "Hierophant",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamageLightning,
			PrimarySkills: []string{"Storm Brand"},
			SupportGems: []string{
				"Added Lightning Damage", "Controlled Destruction", "Lightning Penetration",
				"Swiftbrand", "Concentrated Effect", "Inspiration",
			},
			EssentialItems: []string{"Atziri's Foible"},
			Keystones:      []string{"Mind Over Matter"},
			Tags:           []string{"hybrid"},
			TargetDPS:      600000,
			TargetEHP:      6200,
			BudgetMin:      1,
			BudgetMax:      10,
			MinResistances: standardRes(-40),
		},
		{
			Name:          "Divine Ire Inquisitor",
			Archetype:     build.ArchetypeBossKiller,
			Class:         "Templar",
			Ascendancy:    "Inquisitor",
			Complexity:    build.ComplexityAdvanced,
			DamageType:    build.DamageLightning,
			PrimarySkills: []string{"Divine Ire"},
			SupportGems: []string{
				"Infused Channelling", "Controlled Destruction", "Increased Critical Damage",
				"Lightning Penetration", "Concentrated Effect", "Arcane Surge",
			},
			EssentialItems: []string{"Void Battery", "Shavronne's Wrappings"},
			Keystones:      []string{"Pain Attunement"},
			Tags:           []string{"energy-shield"},
			TargetDPS:      4000000,
			TargetEHP:      6500,
			BudgetMin:      8,
			BudgetMax:      60,
			MinResistances: standardRes(-20),
		},
		{
			Name:          "Purifying Flame Inquisitor",
			Archetype:     build.ArchetypeLeagueStarter,
			Class:         "Templar",
			Ascendancy:    "Inquisitor",
			Complexity:    build.ComplexityBeginner,
			DamageType:    build.DamageFire,
			PrimarySkills: []string{"Purifying Flame"},
			SupportGems: []string{
				"Added Fire Damage", "Controlled Destruction", "Concentrated Effect",
				"Elemental Focus", "Inspiration", "Fire Penetration",
			},
			EssentialItems: []string{"The Searing Touch"},
			Tags:           []string{"life"},
			TargetDPS:      350000,
			TargetEHP:      5600,
			BudgetMin:      0.5,
			BudgetMax:      6,
			MinResistances: standardRes(-40),
		},

		// Shadow
		{
			Name:          "Blade Vortex Assassin",
			Archetype:     build.ArchetypeSpeedFarmer,
			Class:         "Shadow",
			Ascendancy:    "Assassin",
			Complexity:    build.ComplexityAdvanced,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Blade Vortex"},
			SupportGems: []string{
				"Unleash", "Increased Critical Damage", "Controlled Destruction",
				"Deadly Ailments", "Void Manipulation", "Efficacy",
			},
			EssentialItems: []string{"Cold Iron Point", "Cherrubim's Maleficence"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      3000000,
			TargetEHP:      5000,
			BudgetMin:      10,
			BudgetMax:      70,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Essence Drain Trickster",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Shadow",
			Ascendancy:    "Trickster",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamageChaos,
			PrimarySkills: []string{"Essence Drain", "Contagion"},
			SupportGems: []string{
				"Efficacy", "Void Manipulation", "Controlled Destruction",
				"Swift Affliction", "Empower", "Deadly Ailments",
			},
			EssentialItems: []string{"The Consuming Dark"},
			Keystones:      []string{"Wicked Ward", "Ghost Reaver"},
			Tags:           []string{"hybrid", "evasion"},
			TargetDPS:      800000,
			TargetEHP:      7200,
			BudgetMin:      2,
			BudgetMax:      20,
			MinResistances: standardRes(0),
		},
		{
			Name:          "Seismic Trap Saboteur",
			Archetype:     build.ArchetypeBossKiller,
			Class:         "Shadow",
			Ascendancy:    "Saboteur",
			Complexity:    build.ComplexityAdvanced,
			DamageType:    build.DamagePhysical,
			PrimarySkills: []string{"Seismic Trap", "Exsanguinate"},
			SupportGems: []string{
				"Trap and Mine Damage", "Advanced Traps", "Brutality",
				"Concentrated Effect", "Controlled Destruction", "Empower",
			},
			EssentialItems: []string{"Tinkerskin"},
			Tags:           []string{"life", "trap"},
			TargetDPS:      5000000,
			TargetEHP:      6000,
			BudgetMin:      6,
			BudgetMax:      45,
			MinResistances: standardRes(-30),
		},

		// Scion
		{
			Name:          "Cast on Crit Ice Nova Ascendant",
			Archetype:     build.ArchetypePureDamage,
			Class:         "Scion",
			Ascendancy:    "Ascendant",
			Complexity:    build.ComplexityExpert,
			DamageType:    build.DamageCold,
			PrimarySkills: []string{"Ice Nova", "Cyclone"},
			SupportGems: []string{
				"Cast On Critical Strike", "Added Cold Damage", "Increased Critical Damage",
				"Cold Penetration", "Inspiration", "Power Charge On Critical",
			},
			EssentialItems: []string{"Cospri's Malice", "Mjolner"},
			Keystones:      []string{"Vaal Pact"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      12000000,
			TargetEHP:      5800,
			BudgetMin:      40,
			BudgetMax:      250,
			MinResistances: standardRes(-30),
		},
		{
			Name:          "Lightning Strike Ascendant",
			Archetype:     build.ArchetypeBalanced,
			Class:         "Scion",
			Ascendancy:    "Ascendant",
			Complexity:    build.ComplexityIntermediate,
			DamageType:    build.DamageLightning,
			PrimarySkills: []string{"Lightning Strike"},
			SupportGems: []string{
				"Elemental Damage with Attacks", "Added Lightning Damage", "Multistrike",
				"Inspiration", "Increased Critical Strikes", "Trinity",
			},
			EssentialItems: []string{"Lightning Coil"},
			Tags:           []string{"life", "evasion"},
			TargetDPS:      2000000,
			TargetEHP:      6300,
			BudgetMin:      5,
			BudgetMax:      40,
			MinResistances: standardRes(-30),
		},
	}
}
