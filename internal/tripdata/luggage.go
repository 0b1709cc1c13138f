package tripdata

import "github.com/tazhate/tripbot/internal/domain"

// Luggage is the family packing list.
var Luggage = []domain.ChecklistCategory{
	{
		Title: "Documentos e Reservas",
		Subcategories: []domain.ChecklistSubcategory{
			{Title: "Documentos Pessoais", Items: []domain.ChecklistItem{
				{Name: "RG (todos os passageiros)"},
				{Name: "Comprovante do Seguro Saúde"},
			}},
			{Title: "Comprovantes e Vouchers", Items: []domain.ChecklistItem{
				{Name: "Comprovante de reserva do hotel"},
				{Name: "Comprovante de passagens aéreas"},
				{Name: "Vouchers de passeios e transfers"},
			}},
		},
	},
	{
		Title: "David",
		Subcategories: []domain.ChecklistSubcategory{
			{Title: "Roupas", Items: []domain.ChecklistItem{
				{Name: "2 calças leves (jeans + sarja)"},
				{Name: "1 bermuda casual"},
				{Name: "5 camisetas (algodão ou dry-fit)"},
				{Name: "1 camisa polo"},
				{Name: "1 blusa de frio leve (moletom)"},
				{Name: "1 jaqueta corta-vento (essencial à noite)"},
				{Name: "1 jaqueta jeans ou bomber"},
				{Name: "1 tênis confortável para caminhada"},
				{Name: "1 par de chinelos"},
				{Name: "1 boné ou chapéu"},
				{Name: "7 cuecas"},
				{Name: "5 pares de meias"},
			}},
			{Title: "Acessórios", Items: []domain.ChecklistItem{
				{Name: "Óculos de sol"},
				{Name: "Relógio"},
				{Name: "Cinto"},
				{Name: "Adaptadores de tomada (tipo C e L)"},
			}},
		},
	},
	{
		Title: "Rafaella",
		Subcategories: []domain.ChecklistSubcategory{
			{Title: "Roupas", Items: []domain.ChecklistItem{
				{Name: "2 calças leves (jeans + legging)"},
				{Name: "1 vestido casual"},
				{Name: "1 saia ou bermuda"},
				{Name: "5 blusas leves"},
				{Name: "1 cardigã ou moletom"},
				{Name: "1 jaqueta corta-vento ou jeans"},
				{Name: "1 casaco leve para noite"},
				{Name: "1 tênis confortável"},
				{Name: "1 sandália baixa"},
				{Name: "1 par de chinelos"},
				{Name: "7 calcinhas"},
				{Name: "3 sutiãs"},
				{Name: "3 pares de meias"},
			}},
			{Title: "Acessórios", Items: []domain.ChecklistItem{
				{Name: "Óculos de sol"},
				{Name: "Chapéu ou boné"},
				{Name: "Bolsa de ombro e pochete de passeio"},
				{Name: "Power bank e carregadores"},
			}},
		},
	},
	{
		Title: "Joe",
		Subcategories: []domain.ChecklistSubcategory{
			{Title: "Roupas", Items: []domain.ChecklistItem{
				{Name: "3 bermudas"},
				{Name: "2 calças leves"},
				{Name: "6 camisetas"},
				{Name: "1 blusa de frio leve"},
				{Name: "1 jaqueta corta-vento infantil"},
				{Name: "1 pijama leve + 1 pijama longo"},
				{Name: "1 tênis confortável"},
				{Name: "1 par de sandálias"},
				{Name: "1 boné"},
				{Name: "7 cuequinhas"},
				{Name: "5 pares de meias"},
			}},
			{Title: "Outros", Items: []domain.ChecklistItem{
				{Name: "Brinquedos pequenos e tablet"},
				{Name: "Casaco reserva"},
				{Name: "Lanchinhos leves"},
				{Name: "Garrafinha d’água"},
			}},
		},
	},
	{
		Title: "Itens de Higiene e Farmácia (para toda a família)",
		Subcategories: []domain.ChecklistSubcategory{
			{Title: "Higiene Pessoal", Items: []domain.ChecklistItem{
				{Name: "Escovas e pastas de dente"},
				{Name: "Fio dental"},
				{Name: "Desodorantes"},
				{Name: "Shampoo e condicionador"},
				{Name: "Sabonete corporal e íntimo"},
				{Name: "Hidratante corporal e facial"},
				{Name: "Protetor solar (adulto e infantil)"},
				{Name: "Protetor labial"},
				{Name: "Perfume"},
				{Name: "Escovas de cabelo e pentes"},
				{Name: "Toalhas de rosto e corpo"},
				{Name: "Lâminas de barbear / depilação"},
				{Name: "Lenços umedecidos"},
				{Name: "Demaquilante e algodão"},
				{Name: "Fraldas noturnas (se necessário)"},
			}},
			{Title: "Farmácia", Items: []domain.ChecklistItem{
				{Name: "Analgésicos e antitérmicos (paracetamol / ibuprofeno)"},
				{Name: "Antialérgicos (adulto e infantil)"},
				{Name: "Remédio para cólica e enjoo"},
				{Name: "Pomada para assadura e picada de inseto"},
				{Name: "Curativos (band-aids, gaze, esparadrapo)"},
				{Name: "Termômetro"},
				{Name: "Repelente (adulto e infantil)"},
				{Name: "Álcool 70% (gel ou spray)"},
				{Name: "Soro fisiológico e cotonetes"},
				{Name: "Medicamentos de uso contínuo (com receita médica)"},
				{Name: "Pomada para irritações de pele"},
				{Name: "Colírio lubrificante (caso o clima seco incomode)"},
			}},
		},
	},
}
